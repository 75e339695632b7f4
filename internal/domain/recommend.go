package domain

// Severity tags a recommendation for display.
type Severity string

const (
	SeverityCritico   Severity = "critico"
	SeverityModerado  Severity = "moderado"
	SeverityBueno     Severity = "bueno"
	SeverityExcelente Severity = "excelente"
)

// Recommendation is one advisory message. Computed per request, never
// persisted.
type Recommendation struct {
	Text     string   `json:"texto"`
	Severity Severity `json:"clase"`
}

// Recommend derives the advisory list for a scored reading. The first entry
// always describes the overall score; per-feature advisories follow in
// feature order, at most one per feature (the critical tier wins over the
// moderate one). Output order is stable and part of the contract: the UI
// renders the list as-is.
func Recommend(v FeatureVector, score float64) []Recommendation {
	recs := make([]Recommendation, 0, FeatureCount+1)

	switch Categorize(score) {
	case CategoryCritico:
		recs = append(recs, Recommendation{
			Text:     "El ecosistema está en estado CRÍTICO. Se requiere intervención urgente.",
			Severity: SeverityCritico,
		})
	case CategoryModerado:
		recs = append(recs, Recommendation{
			Text:     "Estado MODERADO: hay problemas, pero pueden mejorarse con acciones continuas.",
			Severity: SeverityModerado,
		})
	case CategoryBueno:
		recs = append(recs, Recommendation{
			Text:     "Estado BUENO: sigue fortaleciendo los aspectos ambientales.",
			Severity: SeverityBueno,
		})
	default:
		recs = append(recs, Recommendation{
			Text:     "¡Excelente estado ambiental! Mantén las prácticas actuales.",
			Severity: SeverityExcelente,
		})
	}

	switch {
	case v.GreenAreaKm2 < 5:
		recs = append(recs, Recommendation{
			Text:     "Muy pocas hectáreas verdes. Se recomienda ampliar zonas verdes.",
			Severity: SeverityCritico,
		})
	case v.GreenAreaKm2 < 10:
		recs = append(recs, Recommendation{
			Text:     "Las zonas verdes son bajas. Plantar árboles ayudaría.",
			Severity: SeverityModerado,
		})
	}

	switch {
	case v.TreeCoverPct < 10:
		recs = append(recs, Recommendation{
			Text:     "Cobertura arbórea muy baja. Urgente reforestación.",
			Severity: SeverityCritico,
		})
	case v.TreeCoverPct < 20:
		recs = append(recs, Recommendation{
			Text:     "Aumentar árboles mejoraría la calidad ambiental.",
			Severity: SeverityModerado,
		})
	}

	switch {
	case v.PM25 > 40:
		recs = append(recs, Recommendation{
			Text:     "PM2.5 extremadamente alto. Revisar fuentes de contaminación.",
			Severity: SeverityCritico,
		})
	case v.PM25 > 25:
		recs = append(recs, Recommendation{
			Text:     "PM2.5 elevado. Reducir emisiones ayudaría.",
			Severity: SeverityModerado,
		})
	}

	// PM10 has no critical tier.
	if v.PM10 > 60 {
		recs = append(recs, Recommendation{
			Text:     "PM10 elevado. Revisar fuentes de partículas.",
			Severity: SeverityModerado,
		})
	}

	switch {
	case v.UnmanagedWaste > 0.7:
		recs = append(recs, Recommendation{
			Text:     "Muchos residuos sin gestionar. Mejorar manejo de basuras.",
			Severity: SeverityCritico,
		})
	case v.UnmanagedWaste > 0.3:
		recs = append(recs, Recommendation{
			Text:     "Manejo de residuos mejorable.",
			Severity: SeverityModerado,
		})
	}

	switch {
	case v.RecyclingPct < 10:
		recs = append(recs, Recommendation{
			Text:     "Reciclaje muy bajo. Incrementarlo ayudaría mucho.",
			Severity: SeverityCritico,
		})
	case v.RecyclingPct < 25:
		recs = append(recs, Recommendation{
			Text:     "Se puede mejorar el reciclaje.",
			Severity: SeverityModerado,
		})
	}

	switch {
	case v.CleanTransportPct < 10:
		recs = append(recs, Recommendation{
			Text:     "Muy poco transporte limpio. Fomentar medios sostenibles.",
			Severity: SeverityCritico,
		})
	case v.CleanTransportPct < 25:
		recs = append(recs, Recommendation{
			Text:     "Incrementar transporte limpio sería beneficioso.",
			Severity: SeverityModerado,
		})
	}

	return recs
}
