// Package cubotino solves 2x2x2 cubes optimally and turns the solutions into
// programs for the Cubotino Pocket robot.
//
// # Quick Start
//
// Solve a scanned cube and get the fastest robot program:
//
//	s, err := cubotino.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	plan, err := s.Plan("BUUFURDDFRLRFFDBULLDBLRB")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(plan.Solution, plan.Program, plan.Estimate)
//
// The first call builds the move and pruning tables and caches them under
// ~/.cubotino/tables; later calls load them in milliseconds.
//
// # Facelets
//
// A cube is 24 letters, four per face in the order U R F D L B, each face read
// left to right and top to bottom. Any six colors work: the letters are
// relabeled from the corner at the down-back-left position.
//
// # Metrics
//
// WithMetric(QTM) counts half turns as two moves. The default FTM counts
// every face turn as one.
//
// # Robot programs
//
// A program is a string of servo primitives: F (flip, repeat count 1 to 3),
// S1/S3 (spin the holder without gripping the layer) and R1/R3 (rotate the
// bottom layer). Run executes a plan on anything implementing Executor,
// such as a BLE connected robot or the in-memory VirtualRobot.
package cubotino
