// Package ast defines the abstract syntax tree produced from a concrete
// syntax tree by package astbuild.
//
// The tree is a closed tagged union: Stmt and Expr are sealed interfaces
// and every concrete node carries exactly the fields its kind implies
// plus a source span. Nodes are plain values owned by whoever requested
// the build; nothing here is pooled or shared between sessions.
package ast
