// Package lang interprets wml, a small expression language with typed
// bindings, closures and models.
//
// The subpackages implement the pipeline: [token] classifies words,
// [lexer] scans source into tokens, [parser] builds an [ast.Program] with a
// Pratt parser, and [eval] walks the tree against an [object.Environment].
// This package ties them together behind an [Interpreter], caches parsed
// programs by source hash, and formats programs back to source or to
// JSON and YAML syntax trees.
//
// # Naming
//
// The lexical form of a name decides what it may denote:
//
//   - snake_case words are variables
//   - SCREAMING_CASE words are constants, bound once per scope
//   - PascalCase words are identifiers, used for models
//
// # Grammar
//
// Informal EBNF:
//
//	Program    → Statement* EOF
//	Statement  → Set | Return | Model | Expression ';'?
//	Set        → Type Name '=' Expression ';'?
//	Type       → 'int' | 'flt' | 'str' | 'bool' | 'Any'
//	Return     → 'return' Expression? ';'?
//	Model      → 'model' Identifier ( '(' Identifier ')' )? Block ';'?
//	Block      → '{' Statement* '}'
//	Expression → Prefix | Expression Infix Expression | Call | Primary
//	Call       → Expression '(' ( Expression ( ',' Expression )* )? ')'
//	Primary    → literal | Name | '(' Expression ')' | If | Action
//	If         → 'if' '(' Expression ')' Block ( 'else' Block )?
//	Action     → 'action' '(' ( Type? Name ( ',' Type? Name )* )? ')' Block
//
// # Example
//
//	int limit = 10;
//	flt RATE = 1.5;
//	Any fib = action(int n) {
//	    if (n < 2) { return n; };
//	    return fib(n - 1) + fib(n - 2);
//	};
//	fib(limit) * RATE;
//
// # Errors
//
// Parse failures are reported together as a [*ParseError] wrapped in
// [ErrParse]. Evaluation stops at the first failure, returned as an
// [*object.Error] wrapped in [ErrEvaluate].
package lang
