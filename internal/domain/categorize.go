package domain

// Category is the ordinal classification of an ecoscore.
type Category string

const (
	CategoryCritico   Category = "Crítico"
	CategoryModerado  Category = "Moderado"
	CategoryBueno     Category = "Bueno"
	CategoryExcelente Category = "Excelente"
)

// Categorize maps a rounded ecoscore to its category. The boundaries are
// inclusive lower bounds and match the offline preprocessor that labeled
// the training data; changing one side without the other makes training
// labels and served labels diverge.
func Categorize(score float64) Category {
	switch {
	case score < 200:
		return CategoryCritico
	case score < 350:
		return CategoryModerado
	case score < 450:
		return CategoryBueno
	default:
		return CategoryExcelente
	}
}
