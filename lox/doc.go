// Package lox compiles and runs a small dynamically typed language on a
// stack-based bytecode VM. Programs are sequences of statements:
//   - `print expr;` writes the value of expr followed by a newline.
//   - `expr;` evaluates expr and discards the result.
//
// Expressions cover numbers, strings, true, false and nil literals, unary
// `-` and `!`, arithmetic (+ - * /), comparison (< <= > >=), equality
// (== !=) and parentheses. `+` adds two numbers or concatenates two strings;
// mixing kinds is a runtime error. nil, false and 0 are falsey.
//
// Compile scans and parses in one pass, emitting instructions straight into
// a Chunk without building a syntax tree. A VM then executes the chunk,
// checking operand types before each instruction runs. Comments start with
// `//` and run to the end of the line.
package lox
