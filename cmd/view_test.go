package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/suspect/internal/controller"
	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

func TestViewCmd_UsesDefaultReports(t *testing.T) {
	cmd, mockWorkflow := newTestCmd(t, newViewCmd())

	mockWorkflow.On("View", mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Reports == domain.DefaultReports && args.ReportID == "" && !args.Latest
	})).Return(nil)

	cmd.SetArgs([]string{"view"})
	require.NoError(t, cmd.Execute())

	mockWorkflow.AssertExpectations(t)
}

func TestViewCmd_ReportsFlagIsPassedThrough(t *testing.T) {
	cmd, mockWorkflow := newTestCmd(t, newViewCmd())

	mockWorkflow.EXPECT().View(domain.ViewArgs{
		Reports:  m.Path("./reports.db"),
		ReportID: "abc123",
		Format:   controller.FormatJSON,
		Limit:    3,
	}).Return(nil)

	cmd.SetArgs([]string{"--reports", "./reports.db", "--format", "json", "view", "abc123", "--limit", "3"})
	require.NoError(t, cmd.Execute())

	mockWorkflow.AssertExpectations(t)
}

func TestViewCmd_Latest(t *testing.T) {
	cmd, mockWorkflow := newTestCmd(t, newViewCmd())

	mockWorkflow.On("View", mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Latest
	})).Return(nil)

	cmd.SetArgs([]string{"view", "--latest"})
	require.NoError(t, cmd.Execute())

	mockWorkflow.AssertExpectations(t)
}

func TestViewCmd_TooManyArgs(t *testing.T) {
	cmd, _ := newTestCmd(t, newViewCmd())

	cmd.SetArgs([]string{"view", "a", "b"})
	assert.Error(t, cmd.Execute())
}
