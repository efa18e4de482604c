package controller

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mcq_platform_backend/internal/service"
	"mcq_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AssetController handles tutor uploads of media assets such as question
// attachments and the completion sound.
type AssetController struct {
	Storage *service.StorageService
}

func NewAssetController(storage *service.StorageService) *AssetController {
	return &AssetController{Storage: storage}
}

func allowedAsset(ext string) bool {
	for _, allowed := range util.AllowedAssetExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadAsset godoc
// @Summary Upload a media asset
// @Tags tutor
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Asset file"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "Unsupported file type"
// @Router /api/tutor/assets [post]
func (c *AssetController) UploadAsset(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAsset(ext) {
		util.BadRequest(ctx, fmt.Sprintf("unsupported file type %s", ext))
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("assets/%d%s", time.Now().UnixNano(), ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
