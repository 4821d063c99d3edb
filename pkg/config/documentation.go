package config

import (
	"fmt"
	"strings"
)

// Documentation renders a short language reference written in the table's
// own keywords.
func (t *Table) Documentation() string {
	k := t.keywords
	var b strings.Builder
	b.WriteString("Language reference\n\n")

	b.WriteString("Variable declarations:\n")
	fmt.Fprintf(&b, "  %s %s <name> = <expression>.\n", k.Declare[0], k.Int)
	fmt.Fprintf(&b, "  %s %s <name> = <expression>.\n", k.Declare[0], k.String)
	if len(k.Declare) > 1 {
		fmt.Fprintf(&b, "  (also: %s)\n", strings.Join(k.Declare[1:], ", "))
	}
	fmt.Fprintf(&b, "  %s <name> = <expression>.    (the declaration keyword may be left out)\n", k.Int)
	b.WriteString("\nAssignment (variable must be declared first):\n")
	b.WriteString("  <name> = <expression>.\n")

	b.WriteString("\nOutput:\n")
	fmt.Fprintf(&b, "  %s <expression>.    prints and ends the line\n", k.Display[0])
	if len(k.Display) > 1 {
		fmt.Fprintf(&b, "  (also: %s)\n", strings.Join(k.Display[1:], ", "))
	}
	fmt.Fprintf(&b, "  %s <expression>.    prints without ending the line\n", k.Print)

	b.WriteString("\nExpressions:\n")
	b.WriteString("  integers, \"strings\", variables\n")
	b.WriteString("  * /  then  + -  then  > < >= <= == !=\n")

	b.WriteString("\nFor loops:\n")
	fmt.Fprintf(&b, "  %s <name> in range (<integer>) {\n", k.For)
	b.WriteString("    <statements>\n")
	b.WriteString("  }\n")

	b.WriteString("\nConditionals:\n")
	fmt.Fprintf(&b, "  %s <condition> {\n", k.If)
	b.WriteString("    <statements>\n")
	fmt.Fprintf(&b, "  %s {\n", k.Else)
	b.WriteString("    <statements>\n")
	b.WriteString("  }\n")

	b.WriteString("\nSwitch:\n")
	fmt.Fprintf(&b, "  %s <name> {\n", k.Switch)
	fmt.Fprintf(&b, "  %s <value>:\n", k.Case)
	b.WriteString("    <statements>\n")
	fmt.Fprintf(&b, "  %s:\n", k.Default)
	b.WriteString("    <statements>\n")
	b.WriteString("  }\n")
	return b.String()
}
