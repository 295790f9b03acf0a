package repository

import "errors"

// ErrSlotTaken is returned by BookingRepository.Create when another
// non-cancelled booking already holds the same doctor, date and time.
var ErrSlotTaken = errors.New("slot already booked")
