package trichess

// 马：日字，不憋腿
var knightOffsets = [8][2]int{
	{-2, -1}, {-2, +1},
	{+2, -1}, {+2, +1},
	{-1, -2}, {-1, +2},
	{+1, -2}, {+1, +2},
}

// 王：周围八格
var kingOffsets = queenDirs

func genKnightMoves(p *Position, from int, moves *[]Move) {
	genSteps(p, from, knightOffsets[:], moves)
}

func genKingMoves(p *Position, from int, moves *[]Move) {
	genSteps(p, from, kingOffsets[:], moves)
}
