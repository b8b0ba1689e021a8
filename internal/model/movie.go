package model

import "time"

// Movie represents a film that can be scheduled in one or more showings.
// Duration is expressed in minutes and drives both the schedule conflict
// window and the expiration calculation of its showings.  This struct
// corresponds to a row in the `movie` table.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – title of the movie.
//  Duration – running time in minutes (>= 1).
//  Director – optional director name.
//  Cast     – optional comma separated cast list.
//  Synopsis – optional plot summary.
type Movie struct {
	ID        uint64    // movie.id
	Name      string    // movie.name
	Duration  uint32    // movie.duration (minutes)
	Director  *string   // movie.director (nullable)
	Cast      *string   // movie.cast (nullable)
	Synopsis  *string   // movie.synopsis (nullable)
	CreatedAt time.Time // movie.created_at
	UpdatedAt time.Time // movie.updated_at
}
