package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCLIArgs_RewritesCommonFlagSyntax(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-upcoming", "--limit", "5", "json"})

	assert.Equal(t, []string{"--upcoming", "--limit", "5", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesTypoFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--limt", "5"})

	assert.Equal(t, []string{"--limit", "5"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesFlagAlias(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--solo", "--type=raid"})

	assert.Equal(t, []string{"--no-partner", "--source=raid"}, args)
	assert.Len(t, notes, 2)
}

func TestNormalizeCLIArgs_RewritesCommandTypo(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"sourcess", "--upcoming"})

	assert.Equal(t, []string{"sources", "--upcoming"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesBareFlagOnFlagOnlyCommand(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"raids", "missing"})

	assert.Equal(t, []string{"raids", "--missing"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteRosterPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"roster", "find", "limit"})

	assert.Equal(t, []string{"roster", "find", "limit"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteShareLink(t *testing.T) {
	link := "https://luckydex.app/?count=3&lucky=BwA&sum=1f"
	args, notes := normalizeCLIArgs([]string{"share", "verify", link})

	assert.Equal(t, []string{"share", "verify", link}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteCompletionPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"completion", "zsh"})

	assert.Equal(t, []string{"completion", "zsh"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteHelpCommandArgAsFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"help", "raids"})

	assert.Equal(t, []string{"help", "raids"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_RespectsDoubleDashBoundary(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"raids", "--", "missing", "upcoming"})

	assert.Equal(t, []string{"raids", "--", "missing", "upcoming"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesKnownShorthandUntouched(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-u", "-n", "5", "-s", "raid"})

	assert.Equal(t, []string{"-u", "-n", "5", "-s", "raid"}, args)
	assert.Empty(t, notes)
}

func TestResolveFlagName_SkipsShortTokens(t *testing.T) {
	_, ok := resolveFlagName("5")
	assert.False(t, ok)

	name, ok := resolveFlagName("upcomng")
	assert.True(t, ok)
	assert.Equal(t, "upcoming", name)
}

func TestClosestMatch_TieBreaksLexically(t *testing.T) {
	got, ok := closestMatch("abcd", []string{"abce", "abcf", "abcc"}, 1)

	assert.True(t, ok)
	assert.Equal(t, "abcc", got)
}

func TestExplainCLIError_UnknownFlagIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown flag: --upcomng"))

	assert.Contains(t, msg, "Try `--upcoming`.")
	assert.Contains(t, msg, "luckydex --upcoming")
	assert.Contains(t, msg, "luckydex --source raid --limit 10")
}

func TestExplainCLIError_UnknownCommandIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown command \"rosterr\" for \"luckydex\""))

	assert.Contains(t, msg, "Did you mean `roster`?")
	assert.Contains(t, msg, "luckydex raids")
	assert.Contains(t, msg, "luckydex roster show")
}
