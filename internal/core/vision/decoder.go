package vision

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strings"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// DecodeError 表示傳入的圖片數據無法解碼（base64 壞掉或不是可解析的圖片格式）
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode image: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PixelBuffer 三通道 RGB 像素緩衝區（無 alpha）
type PixelBuffer struct {
	Width  int
	Height int
	// Pix 依序存放每個像素的 R、G、B，長度為 Width*Height*3
	Pix []uint8
}

// ColorModel 實現 image.Image 介面
func (p *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds 實現 image.Image 介面
func (p *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// At 實現 image.Image 介面，alpha 固定為不透明
func (p *PixelBuffer) At(x, y int) color.Color {
	i := (y*p.Width + x) * 3
	return color.RGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: 255}
}

// Decode 將傳輸字串（可帶 data URI 前綴的 base64）轉為 RGB 像素緩衝區。
// 逗號前的 media-type 前綴會被丟棄，兩種輸入形式對同一 payload 結果一致。
func Decode(transport string) (*PixelBuffer, error) {
	payload := transport
	if idx := strings.Index(transport, ","); idx != -1 {
		payload = transport[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64 data", Err: err}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Reason: "unsupported or corrupt image", Err: err}
	}

	return toRGB(img), nil
}

// toRGB 將任意 image.Image 轉為三通道緩衝區，alpha 被丟棄
func toRGB(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := &PixelBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*3),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			buf.Pix[i] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
			i += 3
		}
	}
	return buf
}

// EncodeJPEG 將像素緩衝區重新編碼為 JPEG data URI，供分類器傳輸使用
func EncodeJPEG(p *PixelBuffer) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, p, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}
