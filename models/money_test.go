package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyTimesAndAdd(t *testing.T) {
	price := MustMoney("9.50")
	assert.Equal(t, "19.00", price.Times(2).String())

	// 0.10 summed ten times is exactly 1.00 in fixed point
	total := ZeroMoney
	for i := 0; i < 10; i++ {
		total = total.Add(MustMoney("0.10"))
	}
	assert.True(t, total.Equal(MustMoney("1")))
	assert.Equal(t, "1.00", total.String())
}

func TestMoneyExceeds(t *testing.T) {
	assert.Equal(t, "99999999.99", MaxMoney.String())
	assert.False(t, MaxMoney.Exceeds(MaxMoney))
	assert.True(t, MaxMoney.Add(MustMoney("0.01")).Exceeds(MaxMoney))
	assert.True(t, MustMoney("0.10").Times(1234567890123457).Exceeds(MaxMoney))
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{MustMoney("12.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"12.50"}`, string(b))

	var in struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":3.75}`), &in))
	assert.Equal(t, "3.75", in.Price.String())
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan(int64(19)))
	assert.Equal(t, "19.00", m.String())

	require.NoError(t, m.Scan(9.5))
	assert.Equal(t, "9.50", m.String())

	require.NoError(t, m.Scan([]byte("4.20")))
	assert.Equal(t, "4.20", m.String())

	v, err := MustMoney("7").Value()
	require.NoError(t, err)
	assert.Equal(t, "7.00", v)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("chef")
	assert.False(t, ok)
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusPreparing.Terminal())
}
