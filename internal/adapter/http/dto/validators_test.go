package dto

import (
	"testing"

	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStruct_TrimsAndEscapes(t *testing.T) {
	req := ClearHoldRequest{Note: "  restored <script>alert('x')</script>  "}
	SanitizeStruct(&req)

	assert.Contains(t, req.Note, "&lt;script&gt;")
	assert.NotContains(t, req.Note, "<script>")
	assert.Equal(t, "restored", req.Note[:8])
}

func TestSanitizeStruct_Embedded(t *testing.T) {
	req := MovementRequest{
		OwnerID:       " " + uuid.NewString() + " ",
		Reference:     " DEP-1 ",
		AmountRequest: AmountRequest{Amount: " 10.00 ", Currency: " MXN "},
	}
	SanitizeStruct(&req)

	assert.Equal(t, "DEP-1", req.Reference)
	assert.Equal(t, "10.00", req.Amount)
	assert.Equal(t, "MXN", req.Currency)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

func TestSafeID(t *testing.T) {
	for _, tc := range []string{"ref-001", "REF_002", "a.b.c", "order:42"} {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
	for _, tc := range []string{"ref 001", "ref<001>", "ref;DROP", "", "ref\n001"} {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %q", tc)
	}
}

func TestMovementRequest_Binding(t *testing.T) {
	valid := MovementRequest{
		OwnerID:       uuid.NewString(),
		Reference:     "DEP-1",
		AmountRequest: AmountRequest{Amount: "250.00", Currency: "MXN"},
	}
	require.NoError(t, binding.Validator.ValidateStruct(&valid))

	tests := []struct {
		name   string
		mutate func(*MovementRequest)
	}{
		{"bad owner", func(r *MovementRequest) { r.OwnerID = "nope" }},
		{"bad reference", func(r *MovementRequest) { r.Reference = "a b" }},
		{"bad amount", func(r *MovementRequest) { r.Amount = "ten" }},
		{"bad currency", func(r *MovementRequest) { r.Currency = "mx" }},
		{"bad reason", func(r *MovementRequest) { r.Reason = "GIFT" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mutate(&r)
			assert.Error(t, binding.Validator.ValidateStruct(&r))
		})
	}
}

func TestTransferRequest_SameOwnerRejected(t *testing.T) {
	id := uuid.NewString()
	r := TransferRequest{
		SourceOwnerID:      id,
		DestinationOwnerID: id,
		Reference:          "T-1",
		AmountRequest:      AmountRequest{Amount: "1.00", Currency: "MXN"},
	}
	assert.Error(t, binding.Validator.ValidateStruct(&r))
}

func TestAmountRequest_Money(t *testing.T) {
	m, err := AmountRequest{Amount: "250.00", Currency: "MXN"}.Money()
	require.NoError(t, err)
	assert.Equal(t, money.New(25000, money.MXN), m)

	_, err = AmountRequest{Amount: "1.005", Currency: "MXN"}.Money()
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAmount))

	_, err = AmountRequest{Amount: "1.00", Currency: "MX1"}.Money()
	assert.True(t, apperror.HasCode(err, apperror.CodeUnsupportedCurrency))
}
