package evidence

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("photo.JPG", 1024))
	assert.NoError(t, Validate("statement.docx", MaxSize))
	assert.ErrorIs(t, Validate("script.exe", 10), ErrUnsupportedType)
	assert.ErrorIs(t, Validate("noext", 10), ErrUnsupportedType)
	assert.ErrorIs(t, Validate("scan.pdf", MaxSize+1), ErrTooLarge)
}

func TestCloudinaryPut(t *testing.T) {
	var params uploader.UploadParams
	c := &Cloudinary{folder: "evidence", upload: func(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
		params = p
		return &uploader.UploadResult{SecureURL: "https://res.cloudinary.test/evidence/abc.png"}, nil
	}}

	ref, err := c.Put(context.Background(), "receipt.png", strings.NewReader("bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.test/evidence/abc.png", ref)
	assert.Equal(t, "evidence", params.Folder)
	assert.True(t, strings.HasSuffix(params.PublicID, "-receipt"))
}

func TestCloudinaryPutErrors(t *testing.T) {
	failing := &Cloudinary{upload: func(context.Context, interface{}, uploader.UploadParams) (*uploader.UploadResult, error) {
		return nil, errors.New("network")
	}}
	_, err := failing.Put(context.Background(), "a.png", strings.NewReader(""))
	assert.ErrorContains(t, err, "network")

	rejected := &Cloudinary{upload: func(context.Context, interface{}, uploader.UploadParams) (*uploader.UploadResult, error) {
		return &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil
	}}
	_, err = rejected.Put(context.Background(), "a.png", strings.NewReader(""))
	assert.ErrorContains(t, err, "Invalid image file")
}
