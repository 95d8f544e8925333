// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

// Package htmlutils provides utility functions for working with HTML.
package htmlutils

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Node2string collects the trimmed text content of a node tree into sb,
// separating text nodes with single spaces.
func Node2string(n *html.Node, sb *strings.Builder) error {
	if n.Type == html.TextNode {
		tmp := strings.TrimSpace(n.Data)
		if len(tmp) > 0 {
			if sb.Len() != 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(tmp)
		}

		return nil
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := Node2string(child, sb); err != nil {
			return err
		}
	}

	return nil
}

// AsNode parses an io.Reader as an HTML node.
func AsNode(r io.Reader) (*html.Node, error) {
	n, err := html.Parse(r)
	if nil != err {
		return nil, fmt.Errorf("parsing body as HTML: %w", err)
	}

	return n, nil
}

// FindAll returns every node under n (inclusive) that matches pred, in
// document order.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var found []*html.Node

	if pred(n) {
		found = append(found, n)
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		found = append(found, FindAll(child, pred)...)
	}

	return found
}

// ByTag matches element nodes with the given tag name, case insensitive.
func ByTag(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && strings.EqualFold(name, n.Data)
	}
}

// Attr returns the value of the named attribute, if present.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}

	return "", false
}
