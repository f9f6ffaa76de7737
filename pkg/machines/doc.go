// Package machines holds a small library of ready-made Turing machines: the
// 3-state busy beaver, the copy subroutine and a machine computing one
// generation of the Rule 110 cellular automaton.
package machines
