package internal

// Version is the flipgrid release version
const Version = "0.3.1"
