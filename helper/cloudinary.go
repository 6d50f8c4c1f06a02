package helper

import (
	"asaan_shaadi/config"
	"asaan_shaadi/logger"
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

var ErrCloudinaryDisabled = errors.New("cloudinary is not configured")

var cld *cloudinary.Cloudinary

func CloudinaryConfigured() bool {
	return config.Config("CLOUDINARY_CLOUD_NAME") != "" &&
		config.Config("CLOUDINARY_API_KEY") != "" &&
		config.Config("CLOUDINARY_API_SECRET") != ""
}

// InitCloudinary builds the client from config. It returns nil without error when credentials are absent.
func InitCloudinary() (*cloudinary.Cloudinary, error) {
	if !CloudinaryConfigured() {
		logger.L().Info("cloudinary not configured, image uploads disabled")
		cld = nil
		return nil, nil
	}
	client, err := cloudinary.NewFromParams(
		config.Config("CLOUDINARY_CLOUD_NAME"),
		config.Config("CLOUDINARY_API_KEY"),
		config.Config("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		return nil, err
	}
	client.Config.URL.Secure = true
	cld = client
	return client, nil
}

func Cloudinary() *cloudinary.Cloudinary {
	return cld
}

type UploadedImage struct {
	URL      string
	PublicID string
}

func UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (*UploadedImage, error) {
	if cld == nil {
		return nil, ErrCloudinaryDisabled
	}
	res, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}
	return &UploadedImage{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// DeleteImage removes an uploaded asset. Failures are logged, the database row is the source of truth.
func DeleteImage(ctx context.Context, publicID string) {
	if cld == nil || publicID == "" {
		return
	}
	if _, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		logger.L().Warn("cloudinary destroy failed", zap.String("publicId", publicID), zap.Error(err))
	}
}

// SignUploadParams signs the non-empty params for a direct browser upload.
func SignUploadParams(params map[string]string, secret string) (string, error) {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return api.SignParameters(values, secret)
}
