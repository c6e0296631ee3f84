package lang_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardnew/defconf/lang"
)

func ExampleParseString() {
	src := `
def MAX = 10;
{ name = "example", values = [1, 2, ^MAX] }
`

	doc, err := lang.ParseString(context.Background(), src)
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = doc.FormatYAML(context.Background(), os.Stdout, 2)
	// Output:
	// name: example
	// values:
	// - 1
	// - 2
	// - 10
}

func ExampleDocument_FormatJSON() {
	doc, _ := lang.ParseString(context.Background(), `{ b = 1, a = ["x"] }`)

	_ = doc.FormatJSON(context.Background(), os.Stdout, 0)
	// Output:
	// {"b":1,"a":["x"]}
}

func ExampleDocument_Format() {
	doc, _ := lang.ParseString(context.Background(), "{ a = 1 }\n{ b = { c = \"d\" } }")

	_ = doc.Format(context.Background(), os.Stdout, 2)
	// Output:
	// {
	//   a = 1,
	//   b = {
	//     c = "d"
	//   }
	// }
}

func ExampleDocument_Empty() {
	doc, _ := lang.ParseString(context.Background(), "def A = 1;")

	fmt.Println(doc.Empty(), doc.Constants)
	// Output:
	// true [A]
}

func ExampleParseString_error() {
	_, err := lang.ParseString(context.Background(), "{ a = ^MISSING }")

	fmt.Println(errors.Is(err, lang.ErrUndefinedConstant))
	fmt.Println(err)
	// Output:
	// true
	// undefined constant (name=MISSING, line=1)
}

func ExamplePending() {
	for _, text := range []string{"{ a = [", "{ a = [1] }", "/* open"} {
		pending, _ := lang.Pending(text)
		fmt.Println(pending)
	}
	// Output:
	// true
	// false
	// true
}
