package mapsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

func TestDecode(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"iframeReady","payload":{"status":"ok"}}`))
	require.NoError(t, err)
	assert.Equal(t, IframeReady{Status: "ok"}, msg)

	msg, err = Decode([]byte(`{"type":"requestDateData","payload":{"date":"2026-05-02"}}`))
	require.NoError(t, err)
	assert.Equal(t, RequestDateData{Date: "2026-05-02"}, msg)

	msg, err = Decode([]byte(`{"type":"iframeReady"}`))
	require.NoError(t, err)
	assert.Equal(t, IframeReady{}, msg)

	_, err = Decode([]byte(`{"type":"dance"}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		msg  Outbound
		want string
	}{
		{"loading", MapLoading{}, `{"type":"mapLoading"}`},
		{"clear highlight", ClearHighlight{}, `{"type":"clearHighlight"}`},
		{"error", MapDataError{Message: "boom"}, `{"type":"mapDataError","payload":{"message":"boom"}}`},
		{"search", SearchText{Term: "honey"}, `{"type":"searchText","payload":{"term":"honey"}}`},
		{"highlight", SetHighlight{Kind: "vendorType", ID: "Produce"}, `{"type":"setHighlight","payload":{"type":"vendorType","id":"Produce"}}`},
		{"session", SessionOpened{SessionID: "abc"}, `{"type":"session","payload":{"sessionId":"abc"}}`},
		{
			"dates",
			SetMarketDates{Dates: []domain.DateOption{{Label: "Saturday, May 2, 2026", Value: "2026-05-02"}}},
			`{"type":"setMarketDates","payload":{"dates":[{"label":"Saturday, May 2, 2026","value":"2026-05-02"}]}}`,
		},
		{
			"map data",
			LoadMapData{MapData: domain.MapData{
				VendorsOnDate:   []domain.VendorForDate{},
				AllStallLayouts: []domain.StallLayout{},
				AllPois:         []domain.POI{},
				CurrentDate:     "2026-05-02",
			}},
			`{"type":"loadMapData","payload":{"vendorsOnDate":[],"allStallLayouts":[],"allPois":[],"currentDate":"2026-05-02"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
