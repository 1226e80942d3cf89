package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/logx"
	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	s.app.Get("/", info)

	api := s.app.Group("/api/v1")
	api.Get("/classify", classify)

	files := api.Group("/files")
	files.Get("/", s.listFiles)
	files.Get("/count", s.countFiles)
	files.Get("/unique", s.uniqueFilename)
	files.Get("/content", s.readContent)
	files.Put("/content", s.writeContent)
	files.Post("/copy", s.copyFile)
	files.Post("/json", s.appendJSON)
	files.Get("/presign", s.presign)

	logx.WithField("routes", len(s.app.GetRoutes())).Debug("routes registered")
}

func (s *Server) health(c *fiber.Ctx) error {
	health := fiber.Map{
		"status":  "healthy",
		"service": serviceName,
	}

	if c.QueryBool("check_storage", false) {
		if _, err := s.helper.FileSystem().Exists(c.UserContext(), "/"); err != nil {
			health["storage"] = "unhealthy"
			health["storage_error"] = err.Error()
			health["status"] = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(health)
		}
		health["storage"] = "healthy"
	}

	return c.JSON(health)
}

func info(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": serviceName,
		"endpoints": fiber.Map{
			"health":   "GET /health",
			"classify": "GET /api/v1/classify?path=",
			"list":     "GET /api/v1/files?dir=&pattern=",
			"count":    "GET /api/v1/files/count?dir=&pattern=",
			"unique":   "GET /api/v1/files/unique?dir=&ext=",
			"read":     "GET /api/v1/files/content?path=&encoding=",
			"write":    "PUT /api/v1/files/content?path=&encoding=",
			"copy":     "POST /api/v1/files/copy",
			"json":     "POST /api/v1/files/json?path=&key=",
			"presign":  "GET /api/v1/files/presign?path=&method=",
		},
	})
}

// classify answers with the FileObject of path, or null for an empty path
func classify(c *fiber.Ctx) error {
	return c.JSON(pathx.GetFileObject(c.Query("path")))
}

func (s *Server) listFiles(c *fiber.Ctx) error {
	files, err := s.helper.GetFiles(c.UserContext(), c.Query("dir"), listOptions(c)...)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"files": files, "count": len(files)})
}

func (s *Server) countFiles(c *fiber.Ctx) error {
	count, err := s.helper.GetFileCount(c.UserContext(), c.Query("dir"), listOptions(c)...)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (s *Server) uniqueFilename(c *fiber.Ctx) error {
	name, err := s.helper.GetUniqueFilename(c.UserContext(), c.Query("dir"), c.Query("ext"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"path": name})
}

// readContent sends the raw bytes, or text in the requested encoding
func (s *Server) readContent(c *fiber.Ctx) error {
	p := c.Query("path")

	if c.Query("encoding") == "" {
		contents, err := s.helper.ReadFiles(c.UserContext(), p)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, pathx.ContentType(p))
		return c.Send(contents[0])
	}

	enc, err := fsx.ParseEncoding(c.Query("encoding"))
	if err != nil {
		return err
	}
	texts, err := s.helper.ReadFilesEncoded(c.UserContext(), enc, p)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"path": p, "encoding": enc, "content": texts[0]})
}

func (s *Server) writeContent(c *fiber.Ctx) error {
	enc, err := fsx.ParseEncoding(c.Query("encoding"))
	if err != nil {
		return err
	}

	// the request body is only valid during the handler
	body := append([]byte(nil), c.Body()...)

	written, err := s.helper.WriteFile(c.UserContext(), c.Query("path"), body, fsx.WithEncoding(enc))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"path": written})
}

type copyRequest struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

func (s *Server) copyFile(c *fiber.Ctx) error {
	var req copyRequest
	if err := c.BodyParser(&req); err != nil {
		return fsx.InvalidArgumentError("body", err)
	}

	dst, err := s.helper.Copy(c.UserContext(), req.Src, req.Dst)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"path": dst})
}

// appendJSON appends the request body to the array at key, or to the
// top-level "data" array when key is omitted
func (s *Server) appendJSON(c *fiber.Ctx) error {
	var value any
	if err := c.BodyParser(&value); err != nil {
		return fsx.InvalidArgumentError("body", err)
	}

	p := c.Query("path")
	var (
		written string
		err     error
	)
	if key := c.Query("key"); key != "" {
		written, err = s.helper.AppendJSONAt(c.UserContext(), p, key, value)
	} else {
		written, err = s.helper.AppendJSON(c.UserContext(), p, value, fsx.AppendToArray("data"))
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"path": written})
}

func (s *Server) presign(c *fiber.Ctx) error {
	gen, ok := s.helper.FileSystem().(fsx.PresignedURLGenerator)
	if !ok {
		return fsx.UnsupportedError("presign")
	}

	p := c.Query("path")
	if p == "" {
		return fsx.EmptyInputError("path")
	}

	var (
		url string
		err error
	)
	switch method := c.Query("method", fiber.MethodGet); method {
	case fiber.MethodGet:
		url, err = gen.GetPresignedDownloadURL(c.UserContext(), p, s.presignExpiration)
	case fiber.MethodPut:
		url, err = gen.GetPresignedUploadURL(c.UserContext(), p, s.presignExpiration)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "method must be GET or PUT")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url, "expires_in": s.presignExpiration.String()})
}

func listOptions(c *fiber.Ctx) []fsx.ListOption {
	if pattern := c.Query("pattern"); pattern != "" {
		return []fsx.ListOption{fsx.WithPattern(pattern)}
	}
	return nil
}
