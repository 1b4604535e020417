package server

// Result list defaults and caps (configurable via environment variables)
var (
	DefaultSearchResults = getEnvInt("PUBCHEM_DEFAULT_SEARCH_RESULTS", 5)
	MaxSearchResults     = getEnvInt("PUBCHEM_MAX_SEARCH_RESULTS", 50)
	DefaultStructurePage = getEnvInt("PUBCHEM_DEFAULT_STRUCTURE_PAGE", 10)
	DefaultSynonymPage   = getEnvInt("PUBCHEM_DEFAULT_SYNONYM_PAGE", 10)
)

// clampLimit resolves a requested page size against a default and a cap.
func clampLimit(requested, defaultVal, max int) int {
	if requested <= 0 {
		return defaultVal
	}
	if requested > max {
		return max
	}
	return requested
}
