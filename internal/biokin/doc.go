// Package biokin provides the core types for simulating biological reactor
// kinetics:
//
//   - [ComponentVector]: concentrations of all tracked model components
//   - [Kinetics]: interface for reaction-rate/stoichiometry models
//   - [Integrator]: explicit time-stepping interface
//   - [StepPolicy], [StepSizes]: stability-bound step-size control
//   - [Scheme]: enumerated integration scheme selection
//
// The state layout follows the soluble/particulate convention: soluble
// components occupy the low indices, particulate components the indices at
// and after the model's first-particulate boundary. The two partitions
// tolerate different step sizes, which is what [StepPolicy] encodes.
//
// # Thread Safety
//
// Reactor state is exclusively owned by its reactor instance and all
// operations are synchronous. Nothing in this package is safe for
// concurrent use.
package biokin
