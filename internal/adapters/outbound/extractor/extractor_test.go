package extractor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractor-dev/contractor/internal/adapters/outbound/extractor"
	"github.com/contractor-dev/contractor/internal/domain"
)

func extractOne(t *testing.T, content string) domain.Contract {
	t.Helper()
	contracts := extractor.Extract(content, "test.ts")
	require.Len(t, contracts, 1)
	return contracts[0]
}

func TestExtract_Interface(t *testing.T) {
	c := extractOne(t, `export interface UserProfile {
  id: string;
  name: string;
}`)

	assert.Equal(t, "UserProfile", c.Name)
	assert.Equal(t, domain.KindInterface, c.Kind)
	assert.Equal(t, domain.DefaultVersion, c.Version)
	assert.Equal(t, "test.ts", c.SourceFile)
	assert.Equal(t, 1, c.Line)
	require.Len(t, c.Properties, 2)
	assert.Equal(t, "id", c.Properties[0].Name)
	assert.Equal(t, "string", c.Properties[0].Type)
}

func TestExtract_ObjectTypeAlias(t *testing.T) {
	c := extractOne(t, `export type OrderStatus = {
  code: string;
  label: string;
};`)

	assert.Equal(t, "OrderStatus", c.Name)
	assert.Equal(t, domain.KindTypeAlias, c.Kind)
	require.Len(t, c.Properties, 2)
}

func TestExtract_SingleLineAliasBody(t *testing.T) {
	c := extractOne(t, `export type Point = { x: number }`)

	assert.Equal(t, "Point", c.Name)
	require.Len(t, c.Properties, 1)
	assert.Equal(t, "x", c.Properties[0].Name)
	// The closing brace on the same line must not leak into the type.
	assert.Equal(t, "number", c.Properties[0].Type)
}

func TestExtract_UnionAliasHasNoMembers(t *testing.T) {
	c := extractOne(t, `export type Status = "open" | "closed";`)

	assert.Equal(t, domain.KindTypeAlias, c.Kind)
	assert.Empty(t, c.Properties)
	assert.Empty(t, c.Methods)
}

func TestExtract_GenericAlias(t *testing.T) {
	c := extractOne(t, `export type Page<T> = {
  items: T[];
  cursor: string;
};`)

	assert.Equal(t, "Page", c.Name)
	require.Len(t, c.Properties, 2)
	assert.Equal(t, "T[]", c.Properties[0].Type)
}

func TestExtract_Class(t *testing.T) {
	c := extractOne(t, `export abstract class OrderStore {
  cache: Order[];

  load(id: string): Promise<Order> {
    return this.backend.fetch(id);
  }
}`)

	assert.Equal(t, "OrderStore", c.Name)
	assert.Equal(t, domain.KindClass, c.Kind)
	require.Len(t, c.Properties, 1)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "load", c.Methods[0].Name)
	assert.Equal(t, "Promise<Order>", c.Methods[0].ReturnType)
	assert.True(t, c.Methods[0].IsAsync)
}

func TestExtract_MethodBodyLinesAreNotMembers(t *testing.T) {
	c := extractOne(t, `class Worker {
  run(): void {
    const state: string = "busy";
    this.tick();
  }
}`)

	require.Len(t, c.Methods, 1)
	assert.Empty(t, c.Properties, "locals inside a method body must not become properties")
}

func TestExtract_PrivateMembersSkipped(t *testing.T) {
	c := extractOne(t, `export class Vault {
  public label: string;
  private secret: string;
  private unlock(code: string): boolean { return true; }
  open(): void {}
}`)

	require.Len(t, c.Properties, 1)
	assert.Equal(t, "label", c.Properties[0].Name)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "open", c.Methods[0].Name)
}

func TestExtract_PropertyFlags(t *testing.T) {
	c := extractOne(t, `interface Flags {
  readonly id: string;
  nickname?: string;
}`)

	require.Len(t, c.Properties, 2)
	assert.True(t, c.Properties[0].IsReadonly)
	assert.False(t, c.Properties[0].IsOptional)
	assert.True(t, c.Properties[1].IsOptional)
}

func TestExtract_MethodParameters(t *testing.T) {
	c := extractOne(t, `interface Gateway {
  charge(amount: number, currency?: string, retries = 3, ...tags: string[]): Promise<void>;
}`)

	require.Len(t, c.Methods, 1)
	params := c.Methods[0].Parameters
	require.Len(t, params, 4)

	assert.Equal(t, "amount", params[0].Name)
	assert.Equal(t, "number", params[0].Type)
	assert.False(t, params[0].IsOptional)

	assert.True(t, params[1].IsOptional)
	assert.Equal(t, "string", params[1].Type)

	assert.True(t, params[2].IsOptional)
	assert.Equal(t, "3", params[2].DefaultValue)
	assert.Equal(t, "any", params[2].Type)

	assert.Equal(t, "tags", params[3].Name)
	assert.Equal(t, "string[]", params[3].Type)
}

func TestExtract_ParameterListWithNestedCommas(t *testing.T) {
	c := extractOne(t, `interface Mapper {
  apply(input: Map<string, number>, fn: (x: number) => string): string[];
}`)

	require.Len(t, c.Methods, 1)
	params := c.Methods[0].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, "Map<string, number>", params[0].Type)
	assert.Equal(t, "fn", params[1].Name)
}

func TestExtract_VoidReturnByDefault(t *testing.T) {
	c := extractOne(t, `interface Sink {
  close();
}`)

	require.Len(t, c.Methods, 1)
	assert.Equal(t, "void", c.Methods[0].ReturnType)
	assert.False(t, c.Methods[0].IsAsync)
}

func TestExtract_DuplicateMemberLastWriteWins(t *testing.T) {
	c := extractOne(t, `interface Doubled {
  value: string;
  value: number;
}`)

	require.Len(t, c.Properties, 1)
	assert.Equal(t, "number", c.Properties[0].Type)
}

func TestExtract_TriggerWithoutBodyBeforeNextTrigger(t *testing.T) {
	contracts := extractor.Extract(`export interface Dangling
export interface Complete {
  id: string;
}`, "test.ts")

	require.Len(t, contracts, 2)
	assert.Equal(t, "Dangling", contracts[0].Name)
	assert.Empty(t, contracts[0].Properties)
	assert.Equal(t, "Complete", contracts[1].Name)
	require.Len(t, contracts[1].Properties, 1)
}

func TestExtract_MalformedLinesSkippedSilently(t *testing.T) {
	c := extractOne(t, `interface Messy {
  id: string;
  @#$%^&
  123bad: string;
  : orphanType;
  total: number;
}`)

	require.Len(t, c.Properties, 2)
	assert.Equal(t, "id", c.Properties[0].Name)
	assert.Equal(t, "total", c.Properties[1].Name)
}

func TestExtract_MemberDocumentation(t *testing.T) {
	c := extractOne(t, `interface Annotated {
  /** Unique identifier. */
  id: string;

  // plain comment doc
  label: string;

  orphan: string;
}`)

	require.Len(t, c.Properties, 3)
	assert.Equal(t, "Unique identifier.", c.Properties[0].Documentation)
	assert.Equal(t, "plain comment doc", c.Properties[1].Documentation)
	assert.Empty(t, c.Properties[2].Documentation, "blank line must reset the pending doc")
}

func TestExtract_MultipleContractsPerFile(t *testing.T) {
	contracts := extractor.Extract(`export interface A {
  x: string;
}

export type B = {
  y: number;
};

export class C {
  z: boolean;
}`, "multi.ts")

	require.Len(t, contracts, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{contracts[0].Name, contracts[1].Name, contracts[2].Name})
	assert.Equal(t, 1, contracts[0].Line)
	assert.Equal(t, 5, contracts[1].Line)
	assert.Equal(t, 9, contracts[2].Line)
}

func TestAnalyzeFile_ReadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.ts")
	require.NoError(t, os.WriteFile(path, []byte("export interface User {\n  id: string;\n}\n"), 0644))

	e := extractor.New()
	first, err := e.AnalyzeFile(path)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := e.AnalyzeFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	e := extractor.New()
	_, err := e.AnalyzeFile(filepath.Join(t.TempDir(), "absent.ts"))
	assert.Error(t, err)
}
