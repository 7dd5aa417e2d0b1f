package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/proplens/pkg/editable"
	"github.com/gnana997/proplens/pkg/parser"
)

func extractTestDecls(t *testing.T, path, src string) *FileDecls {
	t.Helper()
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })

	decls, err := ExtractDecls(pm, path, []byte(src))
	require.NoError(t, err)
	return decls
}

func defaultValue(t *testing.T, p editable.FormalParameter) editable.ConstValue {
	t.Helper()
	require.NotNil(t, p.Default)
	captured, ok := p.Default.(*CapturedExpr)
	require.True(t, ok)
	return captured.Value
}

func TestExtractDecls_Components(t *testing.T) {
	src := `
interface WidgetProps {
  label: string;
  size?: Int;
  bold?: boolean;
}

const DEFAULT_LABEL = "untitled";

export function Widget({ label, size = 10, bold = false }: WidgetProps) {
  return <div>{label}</div>;
}

const Card = ({ title = DEFAULT_LABEL }: { title?: string }) => {
  return <section>{title}</section>;
};

function helper(x: number) {
  return x * 2;
}

function intrinsic() {
  return <div />;
}
`
	decls := extractTestDecls(t, "widget.tsx", src)

	widget := decls.Components["Widget"]
	require.NotNil(t, widget)
	require.Len(t, widget.Params, 3)

	label := widget.Params[0]
	assert.Equal(t, "label", label.Name)
	assert.Equal(t, "string", label.Type.Name)
	assert.True(t, label.Required)
	assert.Nil(t, label.Default)

	size := widget.Params[1]
	assert.Equal(t, "size", size.Name)
	assert.Equal(t, "int", size.Type.Name)
	assert.False(t, size.Required)
	assert.Equal(t, editable.Known(int64(10)), defaultValue(t, size))

	bold := widget.Params[2]
	assert.Equal(t, "bold", bold.Name)
	assert.Equal(t, "bool", bold.Type.Name)
	assert.Equal(t, editable.Known(false), defaultValue(t, bold))

	// Arrow component with an inline props type; the default resolves
	// through the top-level constant.
	card := decls.Components["Card"]
	require.NotNil(t, card)
	require.Len(t, card.Params, 1)
	assert.Equal(t, "title", card.Params[0].Name)
	assert.Equal(t, "string", card.Params[0].Type.Name)
	assert.False(t, card.Params[0].Required)
	assert.Equal(t, editable.Known("untitled"), defaultValue(t, card.Params[0]))

	// Neither a lowercase function nor a JSX-free helper is a component.
	assert.NotContains(t, decls.Components, "helper")
	assert.NotContains(t, decls.Components, "intrinsic")

	assert.Equal(t, editable.Known("untitled"), decls.Consts["DEFAULT_LABEL"])
}

func TestExtractDecls_Factories(t *testing.T) {
	src := `
/** @componentFactory */
export function makeBadge(text: string, count: Int = 1): JSX.Element {
  return <span>{text}</span>;
}

export function plain(text: string) {
  return text;
}
`
	decls := extractTestDecls(t, "badge.tsx", src)

	badge := decls.Factories["makeBadge"]
	require.NotNil(t, badge)
	assert.True(t, badge.Marker)
	assert.True(t, badge.Free)
	assert.True(t, badge.ReturnsComponent)
	require.Len(t, badge.Params, 2)

	text := badge.Params[0]
	assert.Equal(t, "text", text.Name)
	assert.Equal(t, "string", text.Type.Name)
	assert.True(t, text.Required)

	count := badge.Params[1]
	assert.Equal(t, "count", count.Name)
	assert.Equal(t, "int", count.Type.Name)
	assert.False(t, count.Required)
	assert.Equal(t, editable.Known(int64(1)), defaultValue(t, count))

	// No marker, no factory.
	assert.NotContains(t, decls.Factories, "plain")
	assert.NotContains(t, decls.Components, "plain")
}

func TestExtractDecls_NullableUnions(t *testing.T) {
	src := `
interface FieldProps {
  hint: string | null;
  width?: number | undefined;
  mode: "a" | "b";
}

export function Field({ hint }: FieldProps) {
  return <input />;
}
`
	decls := extractTestDecls(t, "field.tsx", src)

	field := decls.Components["Field"]
	require.NotNil(t, field)
	require.Len(t, field.Params, 3)

	hint := field.Params[0]
	assert.Equal(t, "string", hint.Type.Name)
	assert.True(t, hint.Nullable)
	assert.True(t, hint.Required)

	width := field.Params[1]
	assert.Equal(t, "number", width.Type.Name)
	assert.True(t, width.Nullable)
	assert.False(t, width.Required)

	// Literal unions are enumerations, not a supported scalar kind.
	mode := field.Params[2]
	assert.Equal(t, "union", mode.Type.Name)
	assert.False(t, mode.Nullable)
}

func TestExtractDecls_TypeAliasProps(t *testing.T) {
	src := `
type ToggleProps = {
  on: boolean;
  ratio: double;
};

export const Toggle = ({ on, ratio = 0.5 }: ToggleProps) => <span>{on}</span>;
`
	decls := extractTestDecls(t, "toggle.tsx", src)

	toggle := decls.Components["Toggle"]
	require.NotNil(t, toggle)
	require.Len(t, toggle.Params, 2)
	assert.Equal(t, "bool", toggle.Params[0].Type.Name)
	assert.Equal(t, "double", toggle.Params[1].Type.Name)
	assert.Equal(t, editable.Known(0.5), defaultValue(t, toggle.Params[1]))
}

func TestExtractDecls_UnsupportedFile(t *testing.T) {
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })

	_, err := ExtractDecls(pm, "styles.css", []byte("body {}"))
	assert.Error(t, err)
}
