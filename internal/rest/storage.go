package rest

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"multiMart/business/storage"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"
	"multiMart/pkg/response"

	"github.com/labstack/echo/v4"
)

const maxFilesPerRequest = 10

type StorageService interface {
	UploadFile(ctx context.Context, f storage.File, folder string) (string, error)
	UploadMultipleFiles(ctx context.Context, files []storage.File, folder string) ([]string, error)
	DeleteFile(ctx context.Context, key string) error
}

type StorageHandler struct {
	storageService StorageService
	timeout        time.Duration
}

func NewStorageHandler(storageService StorageService) *StorageHandler {
	return &StorageHandler{
		storageService: storageService,
		timeout:        60 * time.Second,
	}
}

type UploadResponse struct {
	URL string `json:"url"`
}

type UploadMultipleResponse struct {
	URLs []string `json:"urls"`
}

func (h *StorageHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, apperror.BadRequest("file is required"))
	}

	src, err := fh.Open()
	if err != nil {
		return response.Error(c, apperror.BadRequest("failed to read file"))
	}
	defer src.Close()

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	url, err := h.storageService.UploadFile(ctx, storage.File{Name: fh.Filename, Size: fh.Size, Reader: src}, folderParam(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "File uploaded successfully", UploadResponse{URL: url})
}

func (h *StorageHandler) UploadMultiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, apperror.BadRequest("invalid multipart form"))
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return response.Error(c, apperror.BadRequest("files are required"))
	}
	if len(headers) > maxFilesPerRequest {
		return response.Error(c, apperror.BadRequest("too many files"))
	}

	files := make([]storage.File, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	defer func() {
		for _, cl := range closers {
			if err := cl.Close(); err != nil {
				logger.Warn("Failed to close upload", "error", err)
			}
		}
	}()

	for _, fh := range headers {
		src, err := openPart(fh)
		if err != nil {
			return response.Error(c, err)
		}
		closers = append(closers, src)
		files = append(files, storage.File{Name: fh.Filename, Size: fh.Size, Reader: src})
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	urls, err := h.storageService.UploadMultipleFiles(ctx, files, folderParam(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Files uploaded successfully", UploadMultipleResponse{URLs: urls})
}

func (h *StorageHandler) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.storageService.DeleteFile(ctx, c.QueryParam("key")); err != nil {
		return response.Error(c, err)
	}

	return okMessage(c, "File deleted successfully")
}

func openPart(fh *multipart.FileHeader) (multipart.File, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, apperror.BadRequest("failed to read file " + fh.Filename)
	}
	return src, nil
}

func folderParam(c echo.Context) string {
	if folder := c.FormValue("folder"); folder != "" {
		return folder
	}
	return c.QueryParam("folder")
}
