// Package deck holds the active vocabulary deck and builds the shuffled
// 5x5 flip-card grid from it. Board tracks flip and selection state so the
// text to speak can be derived without any rendering surface.
package deck
