// AngelaMos | 2026
// filter.go

package agreement

import (
	"fmt"
	"strings"
)

// buildListFilter turns the optional filter parameters into a WHERE clause
// over the aliased agreements table ("a") plus its positional args. Absent
// parameters contribute no constraint; present ones are ANDed. Date bounds
// are inclusive and independently optional, so a single bound yields a
// one-sided range. The bank filter is an existential match over the join
// table.
func buildListFilter(params ListAgreementsParams) (string, []any) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"a.title ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Query)+"%")
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Type != "" {
		conditions = append(conditions, fmt.Sprintf(
			"a.agreement_type = $%d", argIdx))
		args = append(args, params.Type)
		argIdx++
	}

	if params.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf(
			"a.agreement_date >= $%d", argIdx))
		args = append(args, params.DateFrom)
		argIdx++
	}

	if params.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf(
			"a.agreement_date <= $%d", argIdx))
		args = append(args, params.DateTo)
		argIdx++
	}

	if params.BankID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM agreement_banks ab WHERE ab.agreement_id = a.id AND ab.bank_id = $%d)",
			argIdx))
		args = append(args, params.BankID)
		argIdx++
	}

	if params.CreatedByID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"a.created_by = $%d", argIdx))
		args = append(args, params.CreatedByID)
		argIdx++
	}

	if len(conditions) == 0 {
		return "TRUE", args
	}

	return strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
