package web

import "slices"

// buildHandlerChain wraps handler so the first middleware runs outermost.
func (wh *WebHandler) buildHandlerChain(handler HandlerFunc, middleware ...Middleware) HandlerFunc {
	allMiddleware := slices.Concat(wh.globalMiddleware, middleware)

	final := handler
	for i := len(allMiddleware) - 1; i >= 0; i-- {
		final = allMiddleware[i](final)
	}

	return final
}
