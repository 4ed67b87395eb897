package movieflix

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) BreakerState() string { return c.breaker.State().String() }
