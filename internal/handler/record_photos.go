package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/crbservicos/field-api/internal/repository"
	"github.com/crbservicos/field-api/internal/utils"
)

// UploadPhotos handles POST /api/records/:id/photos.  The multipart form
// carries one or more files under the "files" field and a "phase" value of
// BEFORE or AFTER selecting which photo list receives them.  Files are
// written to the uploads directory under generated collision-resistant
// names and their relative URLs are appended to the record, preserving
// existing entries and the upload order.
func (h *RecordHandler) UploadPhotos(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "No files uploaded."})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "No files uploaded."})
	}

	phase := strings.ToUpper(strings.TrimSpace(c.FormValue("phase")))
	if phase != repository.PhaseBefore && phase != repository.PhaseAfter {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Phase must be BEFORE or AFTER."})
	}

	ctx := c.Request().Context()
	if _, err := h.Records.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Record not found"})
		}
		return serverError(c, "Error uploading photos", err)
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		name := utils.UploadFilename(fh.Filename)
		if err := h.saveUpload(fh, name); err != nil {
			return serverError(c, "Error uploading photos", err)
		}
		urls = append(urls, "/uploads/"+name)
	}

	rec, err := h.Records.AppendPhotos(ctx, id, phase, urls)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Record not found"})
		}
		return serverError(c, "Error uploading photos", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// saveUpload streams one multipart file into the uploads directory.
func (h *RecordHandler) saveUpload(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
