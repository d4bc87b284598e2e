package allergy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestServiceCheck_SharesTokensAcrossReport(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(NewMatcher(nil), &stubMenu{}, nil, zap.New(core))

	report, err := svc.Check(context.Background(), standardMenu(), "Peanut, peanut  PENUT penut")
	require.NoError(t, err)

	assert.Equal(t, []string{"peanut"}, find(t, report.Results, "Peanut Butter Shake").Offending)
	assert.Equal(t, []Unrecognized{{Token: "penut", Suggestion: "peanut"}}, report.Unrecognized)

	entries := logs.FilterMessage("allergy check").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["tokens"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["unsafe"])
}

func TestServiceCheckMenu_SkipsStoreWithoutTokens(t *testing.T) {
	menu := &stubMenu{items: standardMenu()}
	svc := NewService(NewMatcher(nil), menu, nil, nil)

	_, err := svc.CheckMenu(context.Background(), " ,\t, ")
	assert.ErrorIs(t, err, ErrNoAllergens)
	assert.Equal(t, 0, menu.calls)

	report, err := svc.CheckMenu(context.Background(), "MILK milk")
	require.NoError(t, err)
	assert.Equal(t, 1, menu.calls)
	assert.Equal(t, []string{"milk"}, find(t, report.Results, "Mac and Cheese").Offending)
	assert.Empty(t, report.Unrecognized)
}
