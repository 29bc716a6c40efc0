package token

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		word string
		want Kind
	}{
		{"foo", Variable},
		{"_foo", Variable},
		{"foo_bar2", Variable},
		{"BAZ", Constant},
		{"_BAZ", Constant},
		{"MAX_SIZE", Constant},
		{"Bar", Identifier},
		{"BarFoo1", Identifier},
		{"_Bar", Illegal},
		{"Bar_Foo", Illegal},
		{"barFoo", Illegal},
		{"123", IntValue},
		{"action", Action},
		{"Any", AnyType},
		{"True", BoolValue},
		{"False", BoolValue},
		{"None", None},
		{"flt", FloatType},
		{"model", Model},
		{"", Illegal},
		{"foo-bar", Illegal},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Classify(tt.word); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestTokenPos(t *testing.T) {
	tok := New(StrValue, `'héllo'`, 3, 5)

	if tok.Column != 12 {
		t.Fatalf("Column = %d, want 12", tok.Column)
	}

	if got := tok.Pos(); got != (Pos{Line: 3, Column: 5}) {
		t.Errorf("Pos() = %v, want 3:5", got)
	}
}

func TestKindString(t *testing.T) {
	for k := Illegal; k < numKinds; k++ {
		if k.String() == "" {
			t.Errorf("kind %d has no name", int(k))
		}
	}

	if got := Kind(-1).String(); got != "kind(-1)" {
		t.Errorf("Kind(-1).String() = %q", got)
	}

	if !AnyType.IsType() || Variable.IsType() {
		t.Error("IsType misclassifies annotation keywords")
	}
}
