package net

// Evaluate returns the number of examples for which the index of the
// strongest output activation matches the label.
// Examples the network cannot consume count as misses.
func (n *Network) Evaluate(examples []LabeledExample) int {
	correct := 0
	for _, example := range examples {
		out, err := n.Feedforward(example.Input)
		if err != nil {
			continue
		}
		if Argmax(out) == example.Label {
			correct++
		}
	}
	return correct
}
