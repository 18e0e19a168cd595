package handler

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"
)

// sendCSV renders the whole body before writing headers, so a render error
// still produces a JSON error response.
func sendCSV(c *fiber.Ctx, filename string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
