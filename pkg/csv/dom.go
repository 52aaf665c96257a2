// Package csv provides conversion between records and Shape AST nodes.
//
// A table is an *ast.ArrayDataNode whose elements are records. Each record
// is an *ast.ArrayDataNode of *ast.LiteralNode string fields.
package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// ToAST converts records to an AST table.
func ToAST(records [][]string) *ast.ArrayDataNode {
	rows := make([]ast.SchemaNode, len(records))
	for i, record := range records {
		fields := make([]ast.SchemaNode, len(record))
		for j, f := range record {
			fields[j] = ast.NewLiteralNode(f, ast.ZeroPosition())
		}
		rows[i] = ast.NewArrayDataNode(fields, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(rows, ast.ZeroPosition())
}

// FromAST converts an AST table back to records.
func FromAST(node ast.SchemaNode) ([][]string, error) {
	table, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	records := make([][]string, 0, table.Len())
	for _, elem := range table.Elements() {
		recordNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("expected record to be *ast.ArrayDataNode, got %T", elem)
		}

		fields := make([]string, 0, recordNode.Len())
		for _, fieldNode := range recordNode.Elements() {
			literal, ok := fieldNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("expected field to be *ast.LiteralNode, got %T", fieldNode)
			}
			value, ok := literal.Value().(string)
			if !ok {
				return nil, fmt.Errorf("expected field value to be string, got %T", literal.Value())
			}
			fields = append(fields, value)
		}
		records = append(records, fields)
	}
	return records, nil
}

// ParseAST tokenizes input and returns the records as an AST table.
func ParseAST(input string, cfg Config) (ast.SchemaNode, error) {
	records, err := Parse(input, cfg)
	if err != nil {
		return nil, err
	}
	return ToAST(records), nil
}

// RenderAST renders an AST table produced by ToAST or ParseAST.
func RenderAST(node ast.SchemaNode, cfg Config) ([]byte, error) {
	if node == nil {
		return []byte{}, nil
	}
	records, err := FromAST(node)
	if err != nil {
		return nil, err
	}
	return Render(records, cfg)
}
