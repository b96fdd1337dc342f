package main

// Vocabulary data consumed by the grouping engine and the relevance scorer.
// Collected from scraped listings of the big Argentine supermarket chains.
// Kept as plain data so the lists can be extended without touching the
// matching code: Brands feeds pack detection and the similarity bonus,
// Stopwords feeds tokenization, SemanticClusters feeds the relevance bonus.

// Vocabulary bundles the keyword tables injected into Grouper and Scorer.
type Vocabulary struct {
	// Brands are recognized single-word brand tokens, lowercased.
	Brands map[string]struct{}

	// Stopwords are dropped during name tokenization.
	Stopwords map[string]struct{}

	// TypeSynonyms rewrite variant phrasings to a canonical form before
	// similarity tokenization ("sin azucar" and "zero" are the same drink).
	TypeSynonyms map[string]string

	// SemanticClusters map a cluster name to its member keywords. A query
	// and a product name hitting the same cluster earn a relevance bonus.
	SemanticClusters map[string][]string

	// IrrelevantKeywords veto a product outright regardless of the query
	// (pet food, pharmacy, cleaning, clothing, appliances, hardware).
	IrrelevantKeywords []string

	// FoodKeywords / NonFoodKeywords drive the food-query veto: a food
	// query must never surface a non-food product.
	FoodKeywords    []string
	NonFoodKeywords []string
}

// DefaultVocabulary returns the tables used in production.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Brands: buildBrandSet(
			// Gaseosas y bebidas
			"coca", "sprite", "fanta", "pepsi", "seven", "manaos", "paso",
			"quilmes", "brahma", "andes", "stella", "heineken", "schneider",
			"villavicencio", "glaciar", "eco", "baggio", "cepita", "ades",
			"terma", "cachamai", "taragui", "playadito", "rosamonte", "amanda",
			// Lacteos
			"serenisima", "sancor", "milkaut", "ilolay", "danone", "yogurisimo",
			"ser", "casancrem", "finlandia", "tregar", "verónica", "veronica",
			// Almacen
			"arcor", "bagley", "terrabusi", "oreo", "milka", "cadbury",
			"georgalos", "marolio", "molto", "natura", "cocinero", "cañuelas",
			"lucchetti", "matarazzo", "don", "knorr", "hellmanns", "savora",
			"arlistan", "dolca", "nescafe", "lavirginia", "gallo", "molinos",
			// Carnes y congelados
			"paty", "swift", "granja", "sadia", "mccain",
		),
		Stopwords: map[string]struct{}{
			"con": {}, "sin": {}, "las": {}, "los": {}, "del": {}, "por": {},
			"para": {}, "unidad": {}, "unidades": {}, "pack": {}, "promo": {},
			"oferta": {}, "botella": {}, "lata": {}, "sachet": {}, "caja": {},
			"paquete": {}, "edicion": {}, "sabor": {},
		},
		TypeSynonyms: map[string]string{
			"sin azucar":  "zero",
			"sin azúcar":  "zero",
			"zero azucar": "zero",
			"comun":       "original",
			"común":       "original",
			"clasica":     "original",
			"clásica":     "original",
			"tradicional": "original",
			"regular":     "original",
		},
		SemanticClusters: map[string][]string{
			"carnes": {
				"pollo", "carne", "vacuno", "cerdo", "milanesa", "hamburguesa",
				"pechuga", "bife", "asado", "chorizo", "salchicha", "jamon",
			},
			"lacteos": {
				"leche", "yogur", "yogurt", "queso", "manteca", "crema",
				"ricota", "dulce de leche", "descremada",
			},
			"panaderia": {
				"pan", "lactal", "tostadas", "facturas", "galletitas",
				"budin", "bizcochos", "prepizza",
			},
			"bebidas": {
				"gaseosa", "agua", "jugo", "cerveza", "vino", "cola",
				"soda", "pomelo", "limonada", "energizante",
			},
			"frutas y verduras": {
				"manzana", "banana", "tomate", "papa", "cebolla", "lechuga",
				"naranja", "zanahoria", "limon", "palta", "zapallo",
			},
			"almacen": {
				"arroz", "fideos", "harina", "lentejas", "polenta", "avena",
				"azucar", "yerba", "aceite", "vinagre", "sal", "cafe", "te",
			},
		},
		IrrelevantKeywords: []string{
			// Mascotas
			"para perro", "para gato", "mascota", "balanceado", "piedras sanitarias",
			// Farmacia y cuidado personal
			"ibuprofeno", "paracetamol", "curitas", "antitranspirante",
			"shampoo", "acondicionador", "pañal", "maquinita de afeitar",
			// Limpieza
			"detergente", "lavandina", "suavizante", "limpiador", "insecticida",
			"trapo de piso", "esponja",
			// Indumentaria
			"remera", "pantalon", "zapatillas", "medias", "ojotas",
			// Electro y ferreteria
			"heladera", "microondas", "licuadora", "pava electrica",
			"taladro", "destornillador", "alargue", "lampara",
		},
		FoodKeywords: []string{
			"leche", "pollo", "carne", "pan", "queso", "yogur", "arroz",
			"fideos", "galletitas", "gaseosa", "agua", "jugo", "manzana",
			"banana", "azucar", "cafe", "yerba", "aceite", "harina", "huevos",
			"manteca", "dulce", "mermelada", "atun", "arvejas", "cerveza",
		},
		NonFoodKeywords: []string{
			"detergente", "lavandina", "shampoo", "jabon", "desodorante",
			"pañales", "suavizante", "insecticida", "perro", "gato",
			"servilletas", "rollo de cocina", "papel higienico",
		},
	}
}

func buildBrandSet(brands ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		set[b] = struct{}{}
	}
	return set
}
