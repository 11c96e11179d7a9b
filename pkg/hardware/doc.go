// Package hardware is the catalogue of purchased components: fasteners,
// steppers, rods, bearings, belts, idlers, rails and extrusions.
//
// Each component is a plain value type holding its catalogue dimensions in
// millimetres. Its Part method produces an assembly.Part carrying a stand-in
// solid built through a kernel.Kernel, the declared dimensions and the joint
// interface other parts connect to.
package hardware
