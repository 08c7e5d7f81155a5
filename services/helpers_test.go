package services

import "sales-dashboard/models"

// product builds a normalized record; a negative number marks the value missing.
func product(category, name, user string, rating, price, discount float64) *models.Product {
	return &models.Product{
		Category:           category,
		ProductName:        name,
		UserName:           user,
		Rating:             num(rating),
		DiscountedPrice:    num(price),
		ActualPrice:        num(price * 2),
		DiscountPercentage: num(discount),
	}
}

func num(v float64) models.NullFloat {
	if v < 0 {
		return models.Missing()
	}
	return models.Some(v)
}

func intPtr(n int) *int { return &n }

func sampleDataset() models.Dataset {
	return models.Dataset{
		product("Electronics", "Cable A", "ana", 4.2, 199, 50),    // 0
		product("Home", "Lamp", "ben", 3.9, 1499, 20),             // 1
		product("Electronics", "Cable B", "ana", 3.5, 349, 40),    // 2
		product("Electronics", "Charger", "cy", -1, 599, 30),      // 3 rating missing
		product("Electronics", "Earbuds", "dee", 4.6, -1, 60),     // 4 price missing
		product("", "Mystery", "eve", 4.0, 100, 10),               // 5 category missing
		product("Electronics", "Cable A", "ben", 4.4, 219, -1),    // 6 discount missing
		product("Electronics", "Speaker", "ana", 4.9, 2999.9, 50), // 7
	}
}

func electronicsCriteria() models.FilterCriteria {
	return models.FilterCriteria{
		Category:    "Electronics",
		PriceRange:  models.Range{Min: 0, Max: 5000},
		RatingRange: models.Range{Min: 0, Max: 5},
	}
}
