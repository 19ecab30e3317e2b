package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/abgo/game"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi        = 144.0
	fontsize   = 12.0
	lineheight = 1.2
	longest    = `Round 100000, Game Number: 10000`

	captions = 4 // game name, round, last move, result
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var palette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Encoder renders every position of a game as a frame of an animated GIF. It implements
// abgo.OutputEncoder.
type Encoder struct {
	H, W int
	font.Drawer
	io.Writer

	out *gif.GIF

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int
	dy          int // height of a line of text
	initialized bool
}

// NewGifEncoder creates an encoder whose frames are at most h by w pixels.
func NewGifEncoder(h, w int) *Encoder {
	return &Encoder{
		H:    -1,
		W:    -1,
		maxH: h,
		maxW: w,
		padH: 10,
		padW: 10,
		dy:   int(math.Ceil(fontsize * lineheight * dpi / 72)),

		Drawer: font.Drawer{Src: image.Black},
		out:    &gif.GIF{LoopCount: -1},
	}
}

// size fixes the frame size from the first board drawn.
func (enc *Encoder) size(board []string) {
	enc.Face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	w := maxInt(font.MeasureString(enc.Face, board[0]).Ceil(), font.MeasureString(enc.Face, longest).Ceil())
	enc.W = minInt(w+2*enc.padW, enc.maxW)
	enc.H = minInt((len(board)+captions)*enc.dy+2*enc.padH, enc.maxH)
	if enc.W == enc.maxW {
		enc.padW = 0
	}
	if enc.H == enc.maxH {
		enc.padH = 0
	}
	enc.initialized = true
}

// Encode adds a frame showing the current position of the game. Finished games are shown for
// longer, with their result.
func (enc *Encoder) Encode(ms game.MetaState) error {
	g := ms.State()
	board := strings.Split(strings.TrimRight(fmt.Sprintf("%v", g), "\n"), "\n")
	if !enc.initialized {
		enc.size(board)
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), palette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	enc.Dst = im

	y := enc.padH + enc.dy
	writeln := func(s string) {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += enc.dy
	}
	for _, line := range board {
		writeln(line)
	}
	writeln(ms.Name())
	writeln(fmt.Sprintf("Round %d, Game Number: %d", ms.Round(), ms.GameNumber()))
	if lm := g.LastMove(); !lm.Move.IsNone() {
		writeln(fmt.Sprintf("%v played %v", lm.Player, lm.Move))
	}

	var delay int
	if ended, winner := g.Ended(); ended {
		delay = 300
		if winner == game.Player(game.None) {
			writeln("Draw")
		} else {
			writeln(fmt.Sprintf("Winner: %v", winner))
		}
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if enc.Writer == nil {
		return errors.New("gif: no writer to flush to")
	}
	if len(enc.out.Image) == 0 {
		return errors.New("gif: nothing was encoded")
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
