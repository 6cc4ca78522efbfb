package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"estimator-backend/calculator"
	"estimator-backend/models"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const (
	qrImageSize    = 512
	badgePadding   = 30
	badgeLineH     = 28
	badgeLabelX    = 20
	badgeValueX    = 150
	badgeMaxValLen = 40
)

func drawText(img *image.RGBA, x, y int, label string, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(label)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// QRPayload is the text encoded into a submission's QR code.
func QRPayload(sub *models.CalculatorSubmission, baseURL string) string {
	if baseURL != "" {
		return fmt.Sprintf("%s/api/calculator-submissions/%s/pdf", trimSlash(baseURL), sub.ID)
	}
	return "submission:" + sub.ID
}

// QRCodePNG encodes content as a PNG QR code, used inside quote PDFs.
func QRCodePNG(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

// RenderSubmissionBadge draws a JPEG with the submission QR code on top and
// its key facts underneath.
func RenderSubmissionBadge(sub *models.CalculatorSubmission, baseURL string) ([]byte, error) {
	qr, err := qrcode.New(QRPayload(sub, baseURL), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code generation failed: %w", err)
	}
	qrImg := qr.Image(qrImageSize)
	qrSize := qrImg.Bounds().Dy()

	lines := [][2]string{
		{"Quote:", truncate(sub.ID, badgeMaxValLen)},
		{"Client:", truncate(sub.ContactInfo.Name, badgeMaxValLen)},
		{"Project:", truncate(sub.Selections.String(calculator.FieldProjectType), badgeMaxValLen)},
		{"Estimate:", pdfAmountText(sub.Result.FinalPrice, sub.Result.Currency)},
		{"Date:", sub.CreatedAt.Format("2006-01-02")},
	}
	totalHeight := qrSize + badgePadding + len(lines)*badgeLineH + badgePadding

	img := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, qrSize, qrSize), qrImg, image.Point{}, draw.Src)

	separatorY := qrSize + badgePadding/2
	for x := 0; x < qrSize; x++ {
		img.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
	}

	y := qrSize + badgePadding + badgeLineH
	for _, line := range lines {
		drawText(img, badgeLabelX, y, line[0], inconsolata.Bold8x16, color.RGBA{30, 30, 30, 255})
		drawText(img, badgeValueX, y, line[1], inconsolata.Regular8x16, color.Black)
		y += badgeLineH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("jpeg encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
