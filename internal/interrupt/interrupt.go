// Package interrupt holds the small result types the APU and PPU hand
// back to whatever drives run_to — a CPU core, outside this module.
package interrupt

// Irq is the APU's interrupt result for a run_to/read_status call.
type Irq int

const (
	IrqNone Irq = iota
	IrqRequested
)

// Or combines two results from sequential run_to calls: any IRQ raised
// during either interval must be reported.
func (i Irq) Or(other Irq) Irq {
	if i == IrqRequested || other == IrqRequested {
		return IrqRequested
	}
	return IrqNone
}

// Step is the PPU's interrupt result for a run_to call.
type Step int

const (
	StepContinue Step = iota
	StepNMI
)
