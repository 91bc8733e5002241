package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToRefundInput_RestockDefaultsOn(t *testing.T) {
	var req RefundRequest
	require.NoError(t, json.Unmarshal([]byte(`{"reason":"damaged"}`), &req))

	input := ToRefundInput(req, 42, 7)
	require.True(t, input.RestoreStock)
	require.Equal(t, int64(42), input.OrderID)
	require.Equal(t, int64(7), input.RefundedBy)
	require.Equal(t, "damaged", input.Reason)
}

func TestToRefundInput_RestockOptOut(t *testing.T) {
	var req RefundRequest
	require.NoError(t, json.Unmarshal([]byte(`{"reason":"damaged","restoreStock":false}`), &req))

	require.False(t, ToRefundInput(req, 42, 7).RestoreStock)
}
