package media

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataURL(contentType string, payload []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestParseDataURL(t *testing.T) {
	img, err := ParseDataURL(dataURL("image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("png-bytes"), img.Data)
	assert.Equal(t, "png", img.Extension())
	assert.Equal(t, "reports/r1.png", ObjectKey("r1", img))
}

func TestParseDataURLRejects(t *testing.T) {
	cases := map[string]struct {
		in  string
		err error
	}{
		"plain url":   {in: "https://example.com/a.png", err: ErrInvalidDataURL},
		"no comma":    {in: "data:image/png;base64", err: ErrInvalidDataURL},
		"not base64":  {in: "data:image/png,abc", err: ErrInvalidDataURL},
		"bad payload": {in: "data:image/png;base64,@@@", err: ErrInvalidDataURL},
		"pdf":         {in: dataURL("application/pdf", []byte("x")), err: ErrUnsupportedType},
		"too large":   {in: dataURL("image/jpeg", []byte(strings.Repeat("a", MaxImageBytes+1))), err: ErrTooLarge},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURL(tc.in)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestInlineKeepsDataURL(t *testing.T) {
	in := dataURL("image/jpeg", []byte("jpeg"))
	url, err := Inline{}.Save(context.Background(), "r1", in)
	require.NoError(t, err)
	assert.Equal(t, in, url)

	_, err = Inline{}.Save(context.Background(), "r1", "garbage")
	assert.Error(t, err)
}
