package services

import (
	"github.com/settleops/tradeflow/internal/models"
)

// identifierColumns indexes the security master by each of the four alternate
// identifier spaces a broker instrument code may live in.
type identifierColumns struct {
	byPhillip  map[string][]*models.SecurityReference
	bySecurity map[string][]*models.SecurityReference
	byRJ       map[string][]*models.SecurityReference
	byCQG      map[string][]*models.SecurityReference
}

func indexSecurityReferences(refs []models.SecurityReference) identifierColumns {
	idx := identifierColumns{
		byPhillip:  make(map[string][]*models.SecurityReference),
		byRJ:       make(map[string][]*models.SecurityReference),
		byCQG:      make(map[string][]*models.SecurityReference),
		bySecurity: make(map[string][]*models.SecurityReference),
	}
	for i := range refs {
		r := &refs[i]
		if r.PhillipCode != "" {
			idx.byPhillip[r.PhillipCode] = append(idx.byPhillip[r.PhillipCode], r)
		}
		if r.RJContractCode != "" {
			idx.byRJ[r.RJContractCode] = append(idx.byRJ[r.RJContractCode], r)
		}
		if r.CQGCode != "" {
			idx.byCQG[r.CQGCode] = append(idx.byCQG[r.CQGCode], r)
		}
		if r.SecurityCode != "" {
			idx.bySecurity[r.SecurityCode] = append(idx.bySecurity[r.SecurityCode], r)
		}
	}
	return idx
}

// ResolveTrades joins each trade against the four candidate identifier
// columns of the security master and against the client master.
//
// The join is probed per column in a fixed order; a trade can match in more
// than one identifier space (and more than one master row per space), so the
// raw fan-out is deduplicated by original-row identity, first match winning.
// The per-row count of columns that matched nowhere (codeAbsence) classifies
// resolution: a value of models.IdentifierColumnCount means the code exists
// in none of the identifier spaces, and the trade is marked Unresolved.
//
// Unmatched instrument codes are returned separately so callers can surface
// a codes-needing-mapping diagnostic instead of losing them silently.
func ResolveTrades(trades []models.TradeRow, secs []models.SecurityReference, clients []models.ClientReference) ([]models.ResolvedTrade, []string) {
	idx := indexSecurityReferences(secs)
	columns := []map[string][]*models.SecurityReference{
		idx.byPhillip, idx.byRJ, idx.byCQG, idx.bySecurity,
	}

	clientCodes := make(map[string]string, len(clients))
	for _, c := range clients {
		if _, seen := clientCodes[c.ClientInfo]; !seen {
			clientCodes[c.ClientInfo] = c.ClientCode
		}
	}

	var resolved []models.ResolvedTrade
	var unmatched []string
	seenUnmatched := make(map[string]bool)

	for _, t := range trades {
		codeAbsence := 0
		var first *models.SecurityReference
		for _, col := range columns {
			matches := col[t.ComCode]
			if len(matches) == 0 {
				codeAbsence++
				continue
			}
			if first == nil {
				first = matches[0]
			}
		}

		rt := models.ResolvedTrade{TradeRow: t}
		if codeAbsence == models.IdentifierColumnCount {
			rt.Unresolved = true
			if !seenUnmatched[t.ComCode] {
				seenUnmatched[t.ComCode] = true
				unmatched = append(unmatched, t.ComCode)
			}
		} else {
			rt.SecurityCode = first.SecurityCode
			rt.SecurityName = first.SecurityName
			rt.TickValue = first.TickValue
		}
		rt.ClientCode = clientCodes[t.ClientInfo]
		resolved = append(resolved, rt)
	}

	return resolved, unmatched
}
