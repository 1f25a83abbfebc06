package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name       string
		record     string
		want       string
		wantKind   Kind
		wantStatus string
	}{
		{
			name:   "rejected",
			record: `{"homework_name": "X", "status": "rejected"}`,
			want:   `Status review changed for "X". Work reviewed: reviewer has comments.`,
		},
		{
			name:   "approved",
			record: `{"homework_name": "hw05_final", "status": "approved", "reviewer_comment": "ok"}`,
			want:   `Status review changed for "hw05_final". Work reviewed: reviewer liked it. Hooray!`,
		},
		{
			name:   "reviewing",
			record: `{"homework_name": "hw06", "status": "reviewing"}`,
			want:   `Status review changed for "hw06". Work taken up for review.`,
		},
		{
			name:   "empty name is valid",
			record: `{"homework_name": "", "status": "approved"}`,
			want:   `Status review changed for "". Work reviewed: reviewer liked it. Hooray!`,
		},
		{
			name:     "missing name",
			record:   `{"lesson_name": "X", "status": "approved"}`,
			wantKind: KindMissingField,
		},
		{
			name:     "name not a string",
			record:   `{"homework_name": 7, "status": "approved"}`,
			wantKind: KindMissingField,
		},
		{
			name:       "missing status",
			record:     `{"homework_name": "X"}`,
			wantKind:   KindUnknownStatus,
			wantStatus: "<missing>",
		},
		{
			name:       "unknown status",
			record:     `{"homework_name": "X", "status": "lost"}`,
			wantKind:   KindUnknownStatus,
			wantStatus: "lost",
		},
		{
			name:       "status not a string",
			record:     `{"homework_name": "X", "status": 3}`,
			wantKind:   KindUnknownStatus,
			wantStatus: "3",
		},
		{
			name:     "record not an object",
			record:   `["X", "approved"]`,
			wantKind: KindShape,
		},
		{
			name:     "record is null",
			record:   `null`,
			wantKind: KindShape,
		},
		{
			name:     "record is not json",
			record:   `{"homework_name": `,
			wantKind: KindDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(Record(tt.record))
			if tt.want != "" {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
				return
			}

			var perr *Error
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tt.wantKind, perr.Kind)
			if tt.wantStatus != "" {
				require.Equal(t, tt.wantStatus, perr.Status)
				require.Contains(t, perr.Error(), tt.wantStatus)
			}
		})
	}
}

func TestParseStatus_ApprovedContainsNameAndVerdict(t *testing.T) {
	verdict, ok := Verdict(StatusApproved)
	require.True(t, ok)

	for _, name := range []string{"", "hw01", "Проект спринта", `with "quotes"`, "  spaced  "} {
		record := Record(`{"homework_name": ` + quoteJSON(t, name) + `, "status": "approved"}`)
		got, err := ParseStatus(record)
		require.NoError(t, err)
		require.Contains(t, got, name)
		require.Contains(t, got, verdict)
	}
}

func TestVerdict_ClosedTable(t *testing.T) {
	for _, status := range []string{StatusApproved, StatusReviewing, StatusRejected} {
		_, ok := Verdict(status)
		require.True(t, ok, status)
	}
	_, ok := Verdict("APPROVED")
	require.False(t, ok)
}
