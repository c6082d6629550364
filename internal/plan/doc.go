// Package plan turns matched pairs into a collision-free rename plan.
//
// A destination keeps the subtitle in its own directory and takes the video's
// stem, followed by the subtitle's trailing language and variant tags and its
// original extension. Destinations are unique across the plan and never
// target a file that will still exist when the rename runs.
package plan
