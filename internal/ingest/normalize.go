package ingest

import "golang.org/x/text/unicode/norm"

// normalizeRecords NFC-normalizes every identifier so that visually equal
// tokens from different upstream pipelines compare equal.
func normalizeRecords(rec *Records) {
	for i := range rec.Classes {
		c := &rec.Classes[i]
		c.Tokens = nfcAll(c.Tokens)
		c.Middles = nfcAll(c.Middles)
		c.Role = norm.NFC.String(c.Role)
	}
	for i := range rec.Morphology {
		m := &rec.Morphology[i]
		m.Middles = nfcAll(m.Middles)
		m.Prefixes = nfcAll(m.Prefixes)
		m.Suffixes = nfcAll(m.Suffixes)
	}
	for i := range rec.Transitions {
		for j := range rec.Transitions[i].TokenTransitions {
			tt := &rec.Transitions[i].TokenTransitions[j]
			tt.FromToken = norm.NFC.String(tt.FromToken)
			tt.ToToken = norm.NFC.String(tt.ToToken)
		}
	}
	for i := range rec.Contexts {
		rec.Contexts[i].ID = norm.NFC.String(rec.Contexts[i].ID)
	}

	zones := make(map[string][]string, len(rec.Zones))
	for item, zs := range rec.Zones {
		zones[norm.NFC.String(item)] = zs
	}
	rec.Zones = zones

	vocab := make(map[string]ActivationRecord, len(rec.ContextVocabulary))
	for id, a := range rec.ContextVocabulary {
		vocab[norm.NFC.String(id)] = ActivationRecord{
			Middles:  nfcAll(a.Middles),
			Prefixes: nfcAll(a.Prefixes),
			Suffixes: nfcAll(a.Suffixes),
		}
	}
	rec.ContextVocabulary = vocab

	for label, ids := range rec.Regimes {
		rec.Regimes[label] = nfcAll(ids)
	}

	completeness := make(map[string]CompletenessRecord, len(rec.Completeness))
	for id, c := range rec.Completeness {
		completeness[norm.NFC.String(id)] = c
	}
	rec.Completeness = completeness
}

func nfcAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = norm.NFC.String(s)
	}
	return out
}
