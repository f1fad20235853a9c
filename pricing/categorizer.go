package pricing

import "strings"

// Category is a product categorization with the classifier's confidence.
type Category struct {
	Name       string
	Confidence float64
}

// Categorizer assigns a product category to a line item description. The
// production deployment can plug in an external classification service; the
// default keyword implementation below needs no model.
type Categorizer interface {
	Categorize(description string) Category
}

type keywordSet struct {
	confidence float64
	keywords   []string
}

// KeywordCategorizer classifies descriptions by Spanish retail vocabulary.
// Brand names count too: wholesale invoices often list little more than
// "NIKE AIR 42".
type KeywordCategorizer struct {
	sets map[string]keywordSet
}

func NewKeywordCategorizer() *KeywordCategorizer {
	return &KeywordCategorizer{sets: map[string]keywordSet{
		"shoes": {0.90, []string{
			"zapato", "calzado", "sandalia", "bota", "tenis", "chancleta",
			"mocasin", "tacon", "deportivo", "nike", "adidas", "converse",
			"puma", "crocs",
		}},
		"clothing": {0.85, []string{
			"camiseta", "camisa", "pantalon", "vestido", "falda", "sudadera",
			"chaqueta", "blusa", "short", "jean", "algodon", "talla",
			"manga", "polo", "hoodie",
		}},
		"electronics": {0.95, []string{
			"telefono", "celular", "computador", "tablet", "audifonos",
			"parlante", "cargador", "cable", "usb", "bluetooth",
			"samsung", "xiaomi", "huawei", "iphone",
		}},
		"sports": {0.88, []string{
			"pelota", "balon", "deporte", "gimnasio", "ejercicio", "fitness",
			"pesa", "yoga", "natacion", "futbol", "mancuerna", "colchoneta",
		}},
		"beauty": {0.92, []string{
			"crema", "shampoo", "perfume", "maquillaje", "labial", "base",
			"mascarilla", "serum", "locion", "jabon", "cosmetico", "facial",
		}},
		"accessories": {0.87, []string{
			"collar", "pulsera", "reloj", "gafas", "bolso", "cartera",
			"cinturon", "sombrero", "gorra", "lentes", "anillo", "arete",
		}},
		"home": {0.80, []string{
			"mesa", "silla", "sofa", "cama", "lampara", "cortina",
			"almohada", "sabana", "toalla", "cocina", "decoracion", "estante",
		}},
	}}
}

// Categorize picks the category with the most keyword hits in the folded
// description. No hits (or an empty description) fall back to "general".
func (k *KeywordCategorizer) Categorize(description string) Category {
	folded := fold(description)
	if folded == "" {
		return Category{Name: "general", Confidence: 0.50}
	}

	best := Category{Name: "general", Confidence: 0.60}
	bestHits := 0
	for _, name := range []string{
		"shoes", "clothing", "electronics", "sports", "beauty", "accessories", "home",
	} {
		set := k.sets[name]
		hits := 0
		for _, kw := range set.keywords {
			if strings.Contains(folded, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = Category{Name: name, Confidence: set.confidence}
		}
	}
	return best
}
