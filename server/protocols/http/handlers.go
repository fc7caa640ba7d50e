package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/pipeline"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.store.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleUpload ingests one multipart CSV upload. The file part is
// required; name defaults to the uploaded filename.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return errors.New(ErrInvalidRequest, "missing 'file' part in upload", err)
	}

	f, err := header.Open()
	if err != nil {
		return errors.New(ErrInvalidRequest, "could not open uploaded file", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return errors.New(ErrInvalidRequest, "could not read uploaded file", err)
	}

	name := c.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	created, err := s.extractor.ExtractFromCSV(c.Context(), content, header.Filename, name, c.FormValue("description"), c.FormValue("source"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) handleKaggle(c *fiber.Ctx) error {
	var body struct {
		URL         string `json:"url"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errors.New(ErrInvalidRequest, "invalid request body", err)
	}

	created, err := s.extractor.ExtractFromKaggle(c.Context(), body.URL, body.Name, body.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// defaultListLimit bounds the list endpoint when the caller gives no
// limit; rows and search stay caller-controlled.
const defaultListLimit = 100

func (s *Server) handleList(c *fiber.Ctx) error {
	skip := int64(c.QueryInt("skip", 0))
	limit := int64(c.QueryInt("limit", defaultListLimit))

	datasets, err := s.repo.GetDatasets(c.Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"datasets": datasets, "count": len(datasets)})
}

func (s *Server) handleCount(c *fiber.Ctx) error {
	count, err := s.repo.CountDatasets(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return errors.New(ErrInvalidRequest, "missing 'q' query parameter", nil)
	}

	datasets, err := s.repo.SearchDatasets(c.Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"datasets": datasets, "count": len(datasets)})
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	ds, err := s.repo.GetDataset(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if ds == nil {
		return errors.New(ErrNotFound, "dataset not found", nil).AddContext("dataset_id", c.Params("id"))
	}
	return c.JSON(ds)
}

func (s *Server) handleRows(c *fiber.Ctx) error {
	ds, err := s.repo.GetDataset(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if ds == nil {
		return errors.New(ErrNotFound, "dataset not found", nil).AddContext("dataset_id", c.Params("id"))
	}

	skip := int64(c.QueryInt("skip", 0))
	limit := int64(c.QueryInt("limit", 0))
	rows, err := s.repo.GetRows(c.Context(), ds, skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"rows": rows, "count": len(rows)})
}

func (s *Server) handleProcess(c *fiber.Ctx) error {
	var body struct {
		Operations []pipeline.Operation `json:"operations"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errors.New(ErrInvalidRequest, "invalid request body", err)
	}

	updated, err := s.processor.Process(c.Context(), c.Params("id"), body.Operations)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (s *Server) handleUpdate(c *fiber.Ctx) error {
	var upd dataset.Update
	if err := c.BodyParser(&upd); err != nil {
		return errors.New(ErrInvalidRequest, "invalid request body", err)
	}

	updated, err := s.repo.UpdateDataset(c.Context(), c.Params("id"), &upd)
	if err != nil {
		return err
	}
	if updated == nil {
		return errors.New(ErrNotFound, "dataset not found", nil).AddContext("dataset_id", c.Params("id"))
	}
	return c.JSON(updated)
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	deleted, err := s.repo.DeleteDataset(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return errors.New(ErrNotFound, "dataset not found", nil).AddContext("dataset_id", c.Params("id"))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
