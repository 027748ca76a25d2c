package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDialogueUnderLabel(t *testing.T) {
	src := "label start:\n" +
		"    \"Hello, world!\"\n" +
		"    e \"How are you?\"\n"

	tokens := ScanString("script.rpy", src)
	require.Len(t, tokens, 2)

	assert.Equal(t, "Hello, world!", tokens[0].Text)
	assert.Equal(t, `"Hello, world!"`, tokens[0].RawText)
	assert.Equal(t, Single, tokens[0].Kind)
	assert.Equal(t, 2, tokens[0].Line)
	assert.Equal(t, []string{"label:start"}, tokens[0].ContextPath)
	assert.Equal(t, "dialogue", tokens[0].TextType)
	assert.Equal(t, "script.rpy", tokens[0].File)

	assert.Equal(t, "How are you?", tokens[1].Text)
	assert.Equal(t, `e "How are you?"`, tokens[1].ContextLine)
}

func TestScanScreenIsUIText(t *testing.T) {
	src := "screen preferences():\n" +
		"    vbox:\n" +
		"        text \"Audio\" size 20\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 1)
	assert.Equal(t, []string{"screen:preferences"}, tokens[0].ContextPath)
	assert.Equal(t, "ui", tokens[0].TextType)
}

func TestScopeClosesOnDedent(t *testing.T) {
	src := "screen s:\n" +
		"    text \"inside\"\n" +
		"text \"outside\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 2)
	assert.Equal(t, []string{"screen:s"}, tokens[0].ContextPath)
	// Dedent to the declaring column pops the frame before the line is read.
	assert.Empty(t, tokens[1].ContextPath)
	assert.Equal(t, "dialogue", tokens[1].TextType)
}

func TestNestedMenuUnderLabelStaysDialogue(t *testing.T) {
	src := "label chapter_one:\n" +
		"    menu:\n" +
		"        \"What do you do?\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 1)
	assert.Equal(t, []string{"label:chapter_one", "menu"}, tokens[0].ContextPath)
	assert.Equal(t, "dialogue", tokens[0].TextType)
}

func TestPythonBlockIsUI(t *testing.T) {
	src := "init python:\n" +
		"    store.greeting = \"Hi there\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 1)
	assert.Equal(t, []string{"python"}, tokens[0].ContextPath)
	assert.Equal(t, "ui", tokens[0].TextType)
}

func TestBlankLineKeepsScopeOpen(t *testing.T) {
	src := "screen s:\n" +
		"    text \"first\"\n" +
		"\n" +
		"    text \"second\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 2)
	assert.Equal(t, []string{"screen:s"}, tokens[1].ContextPath)
}

func TestEscapeSequences(t *testing.T) {
	src := `    e "She said \"hi\"\nBye"` + "\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 1)
	assert.Equal(t, "She said \"hi\"\nBye", tokens[0].Text)
	assert.Equal(t, `"She said \"hi\"\nBye"`, tokens[0].RawText)
}

// reescape reverses the unescape substitutions for single-line literals.
func reescape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func TestEscapeRoundTrip(t *testing.T) {
	sources := []string{
		`"plain text"`,
		`"tab\there"`,
		`"quote \" inside"`,
		`"newline\nsplit"`,
	}
	for _, src := range sources {
		tokens := ScanString("", src)
		require.Len(t, tokens, 1, "source %s", src)
		tok := tokens[0]
		inner := tok.RawText[1 : len(tok.RawText)-1]
		assert.Equal(t, inner, reescape(tok.Text), "source %s", src)
	}
}

func TestRawPrefixSkipsUnescaping(t *testing.T) {
	src := `    $ pattern = r"path\nto\thing"` + "\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 1)
	assert.Equal(t, `path\nto\thing`, tokens[0].Text)
	assert.Equal(t, `r"path\nto\thing"`, tokens[0].RawText)
	assert.Equal(t, "r", tokens[0].Prefix)
}

func TestTwoLetterPrefix(t *testing.T) {
	tokens := ScanString("", `rb"x\n"`)
	require.Len(t, tokens, 1)
	assert.Equal(t, "rb", tokens[0].Prefix)
	assert.Equal(t, `x\n`, tokens[0].Text)
}

func TestUnterminatedSingleLineLiteralIsDropped(t *testing.T) {
	src := "\"good\" \"bad\n" +
		"\"next\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 2)
	assert.Equal(t, "good", tokens[0].Text)
	assert.Equal(t, "next", tokens[1].Text)
}

func TestCommentStopsScan(t *testing.T) {
	src := "\"one\" # \"two\"\n" +
		"# \"three\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 1)
	assert.Equal(t, "one", tokens[0].Text)
}

func TestTripleQuotedSpansLines(t *testing.T) {
	src := "\"\"\"Line one\n" +
		"Line two\"\"\" \"after\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 2)
	assert.Equal(t, Triple, tokens[0].Kind)
	assert.Equal(t, "Line one\nLine two", tokens[0].Text)
	assert.Equal(t, "\"\"\"Line one\nLine two\"\"\"", tokens[0].RawText)
	assert.Equal(t, 1, tokens[0].Line)
	// The remainder of the closing line is still scanned.
	assert.Equal(t, "after", tokens[1].Text)
}

func TestTripleQuotedSameLine(t *testing.T) {
	tokens := ScanString("", `"""all on one line"""`)
	require.Len(t, tokens, 1)
	assert.Equal(t, Triple, tokens[0].Kind)
	assert.Equal(t, "all on one line", tokens[0].Text)
}

func TestUnterminatedTripleEmitsCollectedText(t *testing.T) {
	src := "\"\"\"Never closed\n" +
		"more text\n" +
		"and more"

	tokens := ScanString("", src)
	require.Len(t, tokens, 1)
	assert.Equal(t, "Never closed\nmore text\nand more", tokens[0].Text)
	assert.Equal(t, 1, tokens[0].Line)
}

func TestContextDepthNeverExceedsNesting(t *testing.T) {
	src := "label a:\n" +
		"    menu:\n" +
		"        \"deep\"\n" +
		"    \"shallow\"\n" +
		"\"top\"\n"

	tokens := ScanString("", src)
	require.Len(t, tokens, 3)
	assert.Len(t, tokens[0].ContextPath, 2)
	assert.Len(t, tokens[1].ContextPath, 1)
	assert.Empty(t, tokens[2].ContextPath)
}

func TestUnescapeOrder(t *testing.T) {
	assert.Equal(t, "a\nb", Unescape("a\r\nb"))
	assert.Equal(t, "a\nb", Unescape("a\rb"))
	assert.Equal(t, "a\tb", Unescape(`a\tb`))
	assert.Equal(t, `a"b`, Unescape(`a\"b`))
	assert.Equal(t, `a\b`, Unescape(`a\\b`))
}
