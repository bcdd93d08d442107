package ingest

// HeaderProbeRows is how many leading rows are considered as header candidates.
const HeaderProbeRows = 20

const minHeaderScore = 2

// LocateHeader returns the index of the row with the most cells naming a
// known column. The first row reaching the best score wins; when no row
// scores at least two, row 0 is assumed.
func LocateHeader(rows [][]Cell) int {
	bestRow, bestScore := 0, 0

	for i, row := range rows {
		if i >= HeaderProbeRows {
			break
		}

		score := 0
		for _, cell := range row {
			if cell.Valid && IsColumnAlias(cell.String) {
				score++
			}
		}

		if score > bestScore {
			bestRow, bestScore = i, score
		}
	}

	if bestScore < minHeaderScore {
		return 0
	}
	return bestRow
}
