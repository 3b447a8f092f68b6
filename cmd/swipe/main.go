package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/swipe-suggest/backend/internal/client"
	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/swipe"
)

const usage = `commands:
  add <ingredient>     add an ingredient and fetch new recipes
  rm <ingredient>      remove an ingredient and fetch new recipes
  shop on|off          allow or forbid buying extra ingredients
  accept | reject      swipe the top card right or left
  drag <dx> [dy]       drag the top card by dx, dy and release
  reset                go back to the first card
  retry                repeat the last failed fetch
  list                 show ingredients and position
  liked                show accepted recipes
  quit`

func main() {
	gateway := flag.String("gateway", "http://localhost:8080/api/v1/recipes/suggestions", "suggestion endpoint URL")
	htmlOut := flag.Bool("html", false, "render cards as HTML fragments")
	fallback := flag.Bool("fallback", false, "show built-in sample recipes when the gateway fails")
	timeout := flag.Duration("timeout", 90*time.Second, "gateway request timeout")
	animate := flag.Bool("animate", false, "pause for exit animations")
	flag.Parse()

	// keep the terminal for cards; log only problems
	restore := logger.Replace(zap.NewNop())
	defer restore()

	var renderer swipe.Renderer
	if *htmlOut {
		renderer = swipe.NewHTMLRenderer(os.Stdout)
	} else {
		text := swipe.NewTextRenderer(os.Stdout)
		if *animate {
			text.Sleep = time.Sleep
		}
		renderer = text
	}

	ctrl := swipe.New(swipe.Options{
		Fetcher:           client.New(*gateway, *timeout),
		Renderer:          renderer,
		FallbackToSamples: *fallback,
	})
	defer ctrl.Close()

	fmt.Println(usage)
	ctrl.Start()
	run(ctrl, os.Stdin, os.Stdout)
}

func run(ctrl *swipe.Controller, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if !dispatch(ctrl, fields, out) {
			return
		}
	}
}

// dispatch runs one command and reports whether to keep reading.
func dispatch(ctrl *swipe.Controller, fields []string, out io.Writer) bool {
	arg := strings.Join(fields[1:], " ")

	switch strings.ToLower(fields[0]) {
	case "add":
		if !ctrl.AddIngredient(arg) {
			fmt.Fprintf(out, "%q is empty or already listed\n", arg)
			return true
		}
		ctrl.Wait()
	case "rm", "remove":
		if !ctrl.RemoveIngredient(arg) {
			fmt.Fprintf(out, "%q is not listed\n", arg)
			return true
		}
		ctrl.Wait()
	case "shop":
		switch strings.ToLower(arg) {
		case "on", "yes", "true":
			ctrl.SetCanShop(true)
		case "off", "no", "false":
			ctrl.SetCanShop(false)
		default:
			fmt.Fprintln(out, "usage: shop on|off")
			return true
		}
		ctrl.Wait()
	case "accept", "like", "right":
		if !ctrl.Accept() {
			fmt.Fprintln(out, "no card to accept")
		}
	case "reject", "nope", "left":
		if !ctrl.Reject() {
			fmt.Fprintln(out, "no card to reject")
		}
	case "drag":
		drag(ctrl, fields[1:], out)
	case "reset":
		ctrl.Reset()
	case "retry":
		ctrl.Retry()
		ctrl.Wait()
	case "list":
		idx, total := ctrl.Position()
		fmt.Fprintf(out, "ingredients: %s\ncan shop: %v\ncard: %d of %d (%s)\n",
			strings.Join(ctrl.Ingredients(), ", "), ctrl.CanShop(), idx+1, total, ctrl.State())
	case "liked":
		liked := ctrl.Liked()
		if len(liked) == 0 {
			fmt.Fprintln(out, "nothing liked yet")
		}
		for _, r := range liked {
			fmt.Fprintf(out, "  %s (%s)\n", r.Name, r.Cuisine)
		}
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprintln(out, usage)
	default:
		fmt.Fprintf(out, "unknown command %q, type help\n", fields[0])
	}
	return true
}

func drag(ctrl *swipe.Controller, args []string, out io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(out, "usage: drag <dx> [dy]")
		return
	}
	dx, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(out, "invalid dx %q\n", args[0])
		return
	}
	var dy float64
	if len(args) > 1 {
		if dy, err = strconv.ParseFloat(args[1], 64); err != nil {
			fmt.Fprintf(out, "invalid dy %q\n", args[1])
			return
		}
	}

	if !ctrl.PointerDown(0, 0) {
		fmt.Fprintln(out, "no card to drag")
		return
	}
	// two steps so the renderer sees the card follow the pointer
	ctrl.PointerMove(dx/2, dy/2)
	ctrl.PointerMove(dx, dy)
	if _, ok := ctrl.PointerUp(); !ok {
		fmt.Fprintf(out, "released within %.0fpx, card returned\n", swipe.SwipeThreshold)
	}
}
