package shop

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecordID identifies a product record. Early snapshots stored numeric
// millisecond IDs, so it unmarshals from either a JSON number or a
// string; it always marshals back as a string.
type RecordID string

func (id RecordID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *RecordID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*id = RecordID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("record id must be a string or number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// Product is one fractional product in the catalog. PricePerMl is
// derived from Price and Size and is never independently settable;
// repositories recompute it on every write.
type Product struct {
	ID               RecordID `json:"id"`
	Name             string   `json:"name"`
	Brand            string   `json:"brand"`
	Image            string   `json:"image,omitempty"`
	Price            float64  `json:"price"`
	OriginalPrice    float64  `json:"originalPrice,omitempty"`
	Size             float64  `json:"size"`
	OriginalSize     float64  `json:"originalSize,omitempty"`
	PricePerMl       float64  `json:"pricePerMl"`
	Rating           float64  `json:"rating,omitempty"`
	ReviewCount      int      `json:"reviewCount,omitempty"`
	KeyIngredients   []string `json:"keyIngredients,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	EstimatedDays    int      `json:"estimatedDays,omitempty"`
	IsNew            bool     `json:"isNew,omitempty"`
	IsRecommended    bool     `json:"isRecommended,omitempty"`
	SkinTypes        []string `json:"skinTypes,omitempty"`
	Concerns         []string `json:"concerns,omitempty"`
}

// RecomputeUnitPrice refreshes the derived PricePerMl field.
// A zero size yields zero rather than +Inf, which JSON cannot encode.
func (p *Product) RecomputeUnitPrice() {
	if p.Size == 0 {
		p.PricePerMl = 0
		return
	}
	p.PricePerMl = p.Price / p.Size
}

// DefaultProducts returns the seed catalog used when no snapshot exists
// or the stored one is unreadable.
func DefaultProducts() []Product {
	products := []Product{
		{
			ID:               "1",
			Name:             "Sérum Vitamina C Concentrado",
			Brand:            "La Roche-Posay",
			Price:            45.90,
			OriginalPrice:    189.90,
			Size:             15,
			OriginalSize:     30,
			Rating:           4.8,
			ReviewCount:      234,
			KeyIngredients:   []string{"Vitamina C", "Ácido Hialurônico"},
			ShortDescription: "Sérum antioxidante que ilumina e protege a pele contra os radicais livres.",
			EstimatedDays:    30,
			IsNew:            true,
			SkinTypes:        []string{"normal", "seca", "mista"},
			Concerns:         []string{"manchas", "luminosidade"},
		},
		{
			ID:               "2",
			Name:             "Hidratante Facial Ácido Hialurônico",
			Brand:            "Vichy",
			Price:            32.50,
			OriginalPrice:    129.90,
			Size:             25,
			OriginalSize:     50,
			Rating:           4.6,
			ReviewCount:      189,
			KeyIngredients:   []string{"Ácido Hialurônico", "Água Termal"},
			ShortDescription: "Hidratante intensivo que repõe a umidade natural da pele por 24 horas.",
			EstimatedDays:    45,
			IsRecommended:    true,
			SkinTypes:        []string{"seca", "sensivel"},
			Concerns:         []string{"hidratacao", "ressecamento"},
		},
		{
			ID:               "3",
			Name:             "Protetor Solar Facial FPS 60",
			Brand:            "Eucerin",
			Price:            28.90,
			OriginalPrice:    89.90,
			Size:             20,
			OriginalSize:     60,
			Rating:           4.9,
			ReviewCount:      312,
			KeyIngredients:   []string{"Filtros UV", "Antioxidantes"},
			ShortDescription: "Proteção solar avançada com textura leve, ideal para uso diário no rosto.",
			EstimatedDays:    25,
			IsRecommended:    true,
			SkinTypes:        []string{"oleosa", "mista", "normal"},
			Concerns:         []string{"protecao", "oleosidade"},
		},
		{
			ID:               "4",
			Name:             "Sérum Anti-idade Retinol",
			Brand:            "Avène",
			Price:            52.90,
			OriginalPrice:    219.90,
			Size:             12,
			OriginalSize:     30,
			Rating:           4.7,
			ReviewCount:      156,
			KeyIngredients:   []string{"Retinol", "Vitamina E"},
			ShortDescription: "Sérum anti-idade com retinol que reduz linhas finas e melhora a textura da pele.",
			EstimatedDays:    20,
			IsRecommended:    true,
			SkinTypes:        []string{"normal", "mista"},
			Concerns:         []string{"rugas", "anti-idade"},
		},
	}
	for i := range products {
		products[i].RecomputeUnitPrice()
	}
	return products
}
