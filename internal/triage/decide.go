package triage

// Decide labels a Produtivo probability against threshold. The boundary is inclusive.
func Decide(score, threshold float64) Label {
	if score >= threshold {
		return Produtivo
	}
	return Improdutivo
}
