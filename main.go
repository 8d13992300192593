package main

import "github.com/jonax1337/Calories-Training-Tracker-sub000/cmd/daylog"

func main() {
	daylog.Execute()
}
