// Package useractivity tracks, per user and project, when each section was
// last visited and which individual items were read. Records are created
// lazily on the first mutating call and are unique per (user, project).
package useractivity
