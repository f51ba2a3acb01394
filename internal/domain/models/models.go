package models

import (
	"moviecatalog/proj/internal/domain/fields"
)

type Movie struct {
	ID              int          `gorm:"primaryKey"`
	Title           string       `gorm:"size:200;not null"`
	Director        string       `gorm:"size:200;not null"`
	Genre           fields.Genre `gorm:"type:text;not null"`
	IsReleased      bool         `gorm:"not null"`
	ReleaseDate     fields.Date  `gorm:"type:date;not null"`
	UsersWhoWatched []User       `gorm:"many2many:watched_movies;constraint:OnDelete:CASCADE"`
}

type User struct {
	ID            int     `gorm:"primaryKey"`
	Name          string  `gorm:"size:200;not null"`
	Email         string  `gorm:"size:200;not null"`
	WatchedMovies []Movie `gorm:"many2many:watched_movies;constraint:OnDelete:CASCADE"`
}

// WatchedMovie is a row of the users<->movies join table.
type WatchedMovie struct {
	UserID  int `gorm:"primaryKey"`
	MovieID int `gorm:"primaryKey"`
}

func (WatchedMovie) TableName() string {
	return "watched_movies"
}

// HasWatched reports whether movieID is in the user's watched collection.
func (u *User) HasWatched(movieID int) bool {
	for _, m := range u.WatchedMovies {
		if m.ID == movieID {
			return true
		}
	}
	return false
}
