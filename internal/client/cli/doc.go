// Package cli provides the interactive Smart Voyage terminal client.
//
// The App renders the controller's current page and turns commands typed at
// the prompt into controller intents: signing in and out, completing the
// traveler profile, planning a journey or asking for surprise destinations,
// browsing the journey history, and exporting or sharing an itinerary.
//
// While the profile creation prompt is open, every command except logout
// and exit runs the profile form instead.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and ConsoleNotifier for details.
package cli
