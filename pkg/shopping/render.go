package shopping

import (
	"bytes"
	"fmt"
	"strings"

	"Foodgram-Backend/domain"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	emptyListLine = "Shopping list is empty."
	pdfFont       = "GoSans"
)

// RenderText writes one "- name (unit)" line per ingredient and unit.
func RenderText(list domain.ShoppingList, username string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s\n\n", username)

	if list.IsEmpty() {
		b.WriteString(emptyListLine + "\n")
		return []byte(b.String())
	}

	for _, item := range list.Items {
		if len(item.Units) == 0 {
			fmt.Fprintf(&b, "- %s — %s\n", item.Name, domain.FormatAmount(item.Amount))
			continue
		}
		for _, unit := range item.Units {
			if unit.Unit == "" {
				fmt.Fprintf(&b, "- %s — %s\n", item.Name, domain.FormatAmount(unit.Amount))
				continue
			}
			fmt.Fprintf(&b, "- %s (%s) — %s\n", item.Name, unit.Unit, domain.FormatAmount(unit.Amount))
		}
	}
	return []byte(b.String())
}

// RenderPDF lays the list out as an A4 table of name, amount and unit.
func RenderPDF(list domain.ShoppingList, username string) ([]byte, error) {
	pdf := newShoppingPDF(list, username)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func newShoppingPDF(list domain.ShoppingList, username string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	// core fonts only cover cp1252, ingredient names are often Cyrillic
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.SetTitle("Shopping list", true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, "Shopping list for "+username, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if list.IsEmpty() {
		pdf.SetFont(pdfFont, "", 12)
		pdf.CellFormat(0, 8, emptyListLine, "", 1, "L", false, 0, "")
	} else {
		widths := []float64{100, 45, 45}
		pdf.SetFont(pdfFont, "B", 12)
		pdf.SetFillColor(230, 230, 230)
		for i, header := range []string{"Ingredient", "Amount", "Unit"} {
			pdf.CellFormat(widths[i], 8, header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(pdfFont, "", 12)
		for _, item := range list.Items {
			units := item.Units
			if len(units) == 0 {
				units = []domain.UnitAmount{{Amount: item.Amount}}
			}
			for _, unit := range units {
				pdf.CellFormat(widths[0], 8, item.Name, "1", 0, "L", false, 0, "")
				pdf.CellFormat(widths[1], 8, domain.FormatAmount(unit.Amount), "1", 0, "R", false, 0, "")
				pdf.CellFormat(widths[2], 8, unit.Unit, "1", 0, "L", false, 0, "")
				pdf.Ln(-1)
			}
		}
	}
	return pdf
}
