package valueobjects

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestNewDataURL(t *testing.T) {
	assert.Equal(t, ImageRef("data:image/jpeg;base64,AAAA"), NewDataURL("image/jpeg", "AAAA"))
	assert.Equal(t, ImageRef("data:image/png;base64,AAAA"), NewDataURL("", "AAAA"))
}

func TestImageRef_Kinds(t *testing.T) {
	tests := []struct {
		name      string
		ref       ImageRef
		isDataURL bool
		isRemote  bool
	}{
		{name: "data url", ref: "data:image/png;base64,AAAA", isDataURL: true},
		{name: "upper case scheme", ref: "DATA:image/png;base64,AAAA", isDataURL: true},
		{name: "https url", ref: "https://cdn.example.com/a.png", isRemote: true},
		{name: "http url", ref: "http://cdn.example.com/a.png", isRemote: true},
		{name: "plain text", ref: "a photo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isDataURL, tt.ref.IsDataURL())
			assert.Equal(t, tt.isRemote, tt.ref.IsRemote())
		})
	}
}

func TestImageRef_DecodeDataURL(t *testing.T) {
	pngBytes := encodePNG(t)
	encoded := base64.StdEncoding.EncodeToString(pngBytes)

	t.Run("explicit mime type", func(t *testing.T) {
		mimeType, data, err := NewDataURL("image/jpeg", encoded).DecodeDataURL()
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mimeType)
		assert.Equal(t, pngBytes, data)
	})

	t.Run("missing mime type is sniffed", func(t *testing.T) {
		mimeType, data, err := ImageRef("data:;base64," + encoded).DecodeDataURL()
		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
		assert.Equal(t, pngBytes, data)
	})

	t.Run("unpadded payload", func(t *testing.T) {
		_, data, err := ImageRef("data:image/png;base64,Zm9vYg").DecodeDataURL()
		require.NoError(t, err)
		assert.Equal(t, []byte("foob"), data)
	})

	failures := []struct {
		name string
		ref  ImageRef
	}{
		{name: "remote url", ref: "https://cdn.example.com/a.png"},
		{name: "no separator", ref: "data:image/png;base64"},
		{name: "not base64", ref: "data:text/plain,hello"},
		{name: "bad payload", ref: "data:image/png;base64,!!!"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.ref.DecodeDataURL()
			assert.Error(t, err)
		})
	}
}

func TestDetectImageMimeType(t *testing.T) {
	var jpegBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, image.NewRGBA(image.Rect(0, 0, 4, 4)), &jpeg.Options{Quality: 90}))

	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr bool
	}{
		{name: "png", data: encodePNG(t), want: "image/png"},
		{name: "jpeg", data: jpegBuf.Bytes(), want: "image/jpeg"},
		{name: "empty data should fail", data: nil, wantErr: true},
		{name: "invalid image data should fail", data: []byte{0x00, 0x01, 0x02}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectImageMimeType(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
