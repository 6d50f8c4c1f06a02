package handler

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/helper"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func uploadFiles(c *fiber.Ctx, files []*multipart.FileHeader, folder string) ([]*helper.UploadedImage, error) {
	uploaded := make([]*helper.UploadedImage, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		img, err := helper.UploadImage(c.UserContext(), f, folder, "")
		f.Close()
		if err != nil {
			for _, done := range uploaded {
				helper.DeleteImage(c.UserContext(), done.PublicID)
			}
			return nil, err
		}
		uploaded = append(uploaded, img)
	}
	return uploaded, nil
}

// GenerateSignature signs a direct browser upload so the API secret never leaves the server.
func GenerateSignature(c *fiber.Ctx) error {
	if !helper.CloudinaryConfigured() {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.IMAGE_STORAGE_DISABLED, nil)
	}
	input := c.Locals("input").(model.MediaSignatureInput)

	folder := input.Folder
	if folder == "" {
		folder = "asaan-shaadi"
	}
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    folder,
		"timestamp": timestamp,
		"public_id": input.PublicID,
	}

	signature, err := helper.SignUploadParams(params, config.Config("CLOUDINARY_API_SECRET"))
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"folder":    folder,
		"publicId":  input.PublicID,
		"apiKey":    config.Config("CLOUDINARY_API_KEY"),
		"cloudName": config.Config("CLOUDINARY_CLOUD_NAME"),
	})
}
