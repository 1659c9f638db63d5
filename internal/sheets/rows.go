package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/margin"
	"github.com/Veraticus/trendscout/internal/model"
)

// Column positions in the Products tab (A..P).
const (
	colDate = iota
	colName
	colCategory
	colCountry
	colOverall
	colDemand
	colCompetition
	colMargin
	colLegalRisk
	colPrice
	colLink
	colImage
	colDescription
	colReasoning
	colStatus
	colNotes
	columnCount
)

const (
	dateLayout  = "2006-01-02 15:04:05"
	missingCell = "N/A"
	// headerRows is the number of rows above the first record.
	headerRows = 1
)

// Header is the first row of the Products tab.
var Header = []any{
	"date", "name", "category", "country",
	"overall", "demand", "competition", "margin", "legal_risk",
	"price", "link", "image", "description", "reasoning",
	"status", "notes",
}

// ProductToRow renders a record as one sheet row. The link column holds the
// record identity.
func ProductToRow(p model.ProductRecord) []any {
	row := make([]any, columnCount)
	row[colDate] = p.CreatedAt.UTC().Format(dateLayout)
	row[colName] = p.Name
	row[colCategory] = string(orOther(p.Category))
	row[colCountry] = orDefault(p.Country, model.DefaultCountry)
	row[colOverall] = p.Scores.Overall
	row[colDemand] = p.Scores.Demand
	row[colCompetition] = p.Scores.Competition
	row[colMargin] = p.Scores.Margin
	row[colLegalRisk] = p.Scores.LegalRisk
	row[colPrice] = formatPrice(p.RetailPrice)
	row[colLink] = model.NormalizeIdentity(p.Identity)
	row[colImage] = p.ImageURL
	row[colDescription] = p.Description
	row[colReasoning] = p.Reasoning
	row[colStatus] = string(orPending(p.Status))
	row[colNotes] = p.Notes
	return row
}

// RowToProduct parses one sheet row. Short rows are padded; unparsable
// scores read as 0 and unknown statuses as pending.
func RowToProduct(row []any) model.ProductRecord {
	cells := make([]string, columnCount)
	for i := 0; i < columnCount && i < len(row); i++ {
		if row[i] != nil {
			cells[i] = strings.TrimSpace(fmt.Sprint(row[i]))
		}
	}

	p := model.ProductRecord{
		Identity:    cells[colLink],
		Name:        cells[colName],
		Category:    model.ParseCategory(cells[colCategory]),
		Country:     orDefault(cells[colCountry], model.DefaultCountry),
		ImageURL:    cells[colImage],
		Description: cells[colDescription],
		Reasoning:   cells[colReasoning],
		Notes:       cells[colNotes],
		Status:      model.StatusPending,
		Scores: model.Scores{
			Overall:     parseScore(cells[colOverall]),
			Demand:      parseScore(cells[colDemand]),
			Competition: parseScore(cells[colCompetition]),
			Margin:      parseScore(cells[colMargin]),
			LegalRisk:   parseScore(cells[colLegalRisk]),
		},
	}

	if status, err := model.ParseReviewStatus(cells[colStatus]); err == nil {
		p.Status = status
	}
	if price, ok := extract.ParsePriceCell(cells[colPrice]); ok {
		p.RetailPrice = model.Float(price)
	}
	if t, ok := parseDate(cells[colDate]); ok {
		p.CreatedAt = t
	}
	return margin.Apply(p)
}

// rowNumber is the 1-based sheet row of the record at index idx.
func rowNumber(idx int) int {
	return idx + headerRows + 1
}

func formatPrice(v *float64) string {
	if v == nil {
		return missingCell
	}
	return "$" + decimal.NewFromFloat(*v).StringFixed(2)
}

func parseScore(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{dateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func orOther(c model.Category) model.Category {
	if c == "" {
		return model.CategoryOther
	}
	return c
}

func orPending(s model.ReviewStatus) model.ReviewStatus {
	if s == "" {
		return model.StatusPending
	}
	return s
}
