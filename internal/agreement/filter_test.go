// AngelaMos | 2026
// filter_test.go

package agreement

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildListFilter(t *testing.T) {
	tests := []struct {
		name      string
		params    ListAgreementsParams
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filters",
			params:    ListAgreementsParams{},
			wantWhere: "TRUE",
			wantArgs:  nil,
		},
		{
			name:      "free text query",
			params:    ListAgreementsParams{Query: "Acme"},
			wantWhere: "a.title ILIKE $1",
			wantArgs:  []any{"%Acme%"},
		},
		{
			name:      "query escapes like metacharacters",
			params:    ListAgreementsParams{Query: "50%_deal"},
			wantWhere: "a.title ILIKE $1",
			wantArgs:  []any{"%50\\%\\_deal%"},
		},
		{
			name:      "status only",
			params:    ListAgreementsParams{Status: "ACTIVE"},
			wantWhere: "a.status = $1",
			wantArgs:  []any{"ACTIVE"},
		},
		{
			name:      "one-sided range from",
			params:    ListAgreementsParams{DateFrom: "2024-01-01"},
			wantWhere: "a.agreement_date >= $1",
			wantArgs:  []any{"2024-01-01"},
		},
		{
			name:      "one-sided range to",
			params:    ListAgreementsParams{DateTo: "2024-01-31"},
			wantWhere: "a.agreement_date <= $1",
			wantArgs:  []any{"2024-01-31"},
		},
		{
			name: "inclusive range both bounds",
			params: ListAgreementsParams{
				DateFrom: "2024-01-01",
				DateTo:   "2024-01-31",
			},
			wantWhere: "a.agreement_date >= $1 AND a.agreement_date <= $2",
			wantArgs:  []any{"2024-01-01", "2024-01-31"},
		},
		{
			name:   "bank filter is existential over the join table",
			params: ListAgreementsParams{BankID: 7},
			wantWhere: "EXISTS (SELECT 1 FROM agreement_banks ab " +
				"WHERE ab.agreement_id = a.id AND ab.bank_id = $1)",
			wantArgs: []any{int64(7)},
		},
		{
			name:      "creator filter",
			params:    ListAgreementsParams{CreatedByID: 3},
			wantWhere: "a.created_by = $1",
			wantArgs:  []any{int64(3)},
		},
		{
			name: "all filters compose with AND and ordered placeholders",
			params: ListAgreementsParams{
				Query:    "partnership",
				Status:   "PENDING",
				Type:     "COMMERCIAL",
				DateFrom: "2024-01-01",
				DateTo:   "2024-12-31",
				BankID:   2,
			},
			wantWhere: "a.title ILIKE $1 AND a.status = $2 AND " +
				"a.agreement_type = $3 AND a.agreement_date >= $4 AND " +
				"a.agreement_date <= $5 AND EXISTS (SELECT 1 FROM " +
				"agreement_banks ab WHERE ab.agreement_id = a.id AND " +
				"ab.bank_id = $6)",
			wantArgs: []any{
				"%partnership%",
				"PENDING",
				"COMMERCIAL",
				"2024-01-01",
				"2024-12-31",
				int64(2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildListFilter(tt.params)

			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildListFilterPlaceholdersMatchArgs(t *testing.T) {
	params := ListAgreementsParams{
		Query:    "x",
		Status:   "ACTIVE",
		DateFrom: "2024-01-01",
		BankID:   1,
	}

	where, args := buildListFilter(params)

	for i := 1; i <= len(args); i++ {
		placeholder := "$" + string(rune('0'+i))
		if !strings.Contains(where, placeholder) {
			t.Errorf("where clause missing placeholder %s: %s",
				placeholder, where)
		}
	}
}

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults when absent", 0, 0, 1, 20, 0},
		{"negative page clamps to first", -5, 10, 1, 10, 0},
		{"oversized page size clamps", 2, 500, 2, 100, 100},
		{"valid values pass through", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ListAgreementsParams{Page: tt.page, PageSize: tt.pageSize}
			p.Normalize()

			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.PageSize != tt.wantPageSize {
				t.Errorf("pageSize = %d, want %d", p.PageSize, tt.wantPageSize)
			}
			if p.Offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", p.Offset(), tt.wantOffset)
			}
		})
	}
}
