package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elbuensabor/restaurante-api/services"
	"github.com/elbuensabor/restaurante-api/utils"
)

type UploadController struct {
	Images *services.ImageService
}

func NewUploadController(images *services.ImageService) *UploadController {
	return &UploadController{Images: images}
}

// UploadImage takes one multipart image ("image" field) and returns
// the stored variants. The caller then references the URLs when
// creating or updating a catalog item.
func (uc *UploadController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("campo de archivo 'image' requerido"))
		return
	}

	uploaded, err := uc.Images.Process(file)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Image uploaded: %s (%v bytes)", uploaded.FileName, uploaded.Metadata["size_bytes"])

	c.JSON(http.StatusOK, uploaded)
}
