package creative

import (
	"encoding/base64"
	"errors"
	"regexp"
)

// MaxImageBytes is the largest decoded image accepted for inline submission.
const MaxImageBytes = 15 * 1024 * 1024

var (
	ErrImageRequired        = errors.New("imagem obrigatória")
	ErrInvalidImageFormat   = errors.New("formato de imagem inválido: envie JPG, PNG ou WebP como data:image/...;base64,...")
	ErrImageTooLarge        = errors.New("imagem muito grande para análise: máximo ~15MB")
	ErrInvalidImageEncoding = errors.New("codificação base64 da imagem inválida")
)

var dataURLPattern = regexp.MustCompile(`^data:(image/[a-zA-Z0-9.+-]+);base64,(.+)$`)

// Image is a decoded data URL.
type Image struct {
	MIMEType string
	Data     []byte
}

// ParseImage validates a data:image/...;base64,... string and decodes it.
// The size limit is checked on the encoded length before decoding.
func ParseImage(dataURL string) (Image, error) {
	if dataURL == "" {
		return Image{}, ErrImageRequired
	}

	match := dataURLPattern.FindStringSubmatch(dataURL)
	if match == nil {
		return Image{}, ErrInvalidImageFormat
	}
	mimeType, payload := match[1], match[2]

	if float64(len(payload))*0.75 > MaxImageBytes {
		return Image{}, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, ErrInvalidImageEncoding
	}

	return Image{MIMEType: mimeType, Data: data}, nil
}
